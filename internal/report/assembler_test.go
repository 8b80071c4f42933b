package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanspareilsmyn/moltlens/internal/analytics"
	"github.com/sanspareilsmyn/moltlens/internal/config"
	"github.com/sanspareilsmyn/moltlens/internal/hourly"
	"github.com/sanspareilsmyn/moltlens/internal/sample"
)

var (
	baseTime    = time.Date(2026, 2, 6, 3, 0, 0, 0, time.UTC)
	generatedAt = time.Date(2026, 2, 6, 5, 0, 0, 123_000_000, time.UTC)
)

func point(offsetSec, molts, likes, views int64) sample.Sample {
	t := baseTime.Add(time.Duration(offsetSec) * time.Second)
	return sample.Sample{
		Timestamp: t.Format(time.RFC3339),
		Epoch:     t.Unix(),
		Counters:  sample.Counters{Molts: molts, Likes: likes, Views: views},
	}
}

func defaultAnalysis() config.AnalysisConfig {
	return config.AnalysisConfig{
		Windows:         config.DefaultWindows(),
		GapThreshold:    120 * time.Second,
		VarianceWindow:  time.Hour,
		VarianceMinimum: 3,
	}
}

func defaultAnomaly() config.AnomalyConfig {
	return config.AnomalyConfig{MinSamples: 5, HourlyRateFloor: 500, PerMinuteCeiling: 5}
}

func TestAssemble_FullSeries(t *testing.T) {
	s := sample.NewSeries([]sample.Sample{
		point(0, 100, 50, 900),
		point(60, 110, 52, 950),
		point(300, 140, 60, 1100), // 240s gap
		point(360, 150, 61, 1200),
	})
	hours := []hourly.Record{
		{Hour: "2026-02-06T03", Samples: 6, RatePerMin: hourly.Counts{Molts: 2}, RatePerHour: hourly.Counts{Molts: 600}},
	}

	r := NewAssembler(defaultAnalysis(), defaultAnomaly()).Assemble(Input{
		Date:        "2026-02-06",
		GeneratedAt: generatedAt,
		Series:      s,
		Dropped:     2,
		Hours:       hours,
	})

	assert.Equal(t, "2026-02-06", r.Date)
	assert.Equal(t, generatedAt, r.GeneratedAt)
	assert.Equal(t, 4, r.SampleCount)
	assert.Equal(t, 2, r.DroppedLines)

	latest, ok := r.Latest.Get()
	require.True(t, ok)
	assert.Equal(t, int64(150), latest.Molts)

	require.Len(t, r.Windows, 3)
	assert.Equal(t, "Last 30 minutes", r.Windows[0].Name)
	for _, w := range r.Windows {
		st, ok := w.Stats.Get()
		require.True(t, ok, w.Name)
		assert.Equal(t, int64(360), st.ElapsedSeconds)
		assert.Equal(t, int64(50), st.Delta.Molts)
	}

	v, ok := r.Variance.Get()
	require.True(t, ok)
	assert.Equal(t, 3, v.SampleCount)

	since, ok := r.SinceStart.Get()
	require.True(t, ok)
	assert.Equal(t, int64(360), since.ElapsedSeconds)

	assert.Equal(t, []analytics.Gap{{From: "2026-02-06T03:01:00Z", To: "2026-02-06T03:05:00Z", GapSeconds: 240}}, r.Gaps)
	assert.Equal(t, []analytics.Flag{{Hour: "2026-02-06T03", Reason: analytics.ReasonLowRateHighHour}}, r.Flags)
	assert.Equal(t, hours, r.Hours)
}

func TestAssemble_EmptySeriesIsAllInsufficient(t *testing.T) {
	r := NewAssembler(defaultAnalysis(), defaultAnomaly()).Assemble(Input{
		Date:        "2026-02-06",
		GeneratedAt: generatedAt,
	})

	assert.False(t, r.Latest.Sufficient())
	for _, w := range r.Windows {
		assert.False(t, w.Stats.Sufficient(), w.Name)
	}
	assert.False(t, r.Variance.Sufficient())
	assert.False(t, r.SinceStart.Sufficient())
	assert.Equal(t, 0, r.SampleCount)
	assert.Empty(t, r.Gaps)
	assert.Empty(t, r.Flags)
}

func TestAssemble_ShortWindowInsufficientLongWindowNot(t *testing.T) {
	s := sample.NewSeries([]sample.Sample{
		point(0, 100, 0, 0),
		point(7200, 200, 0, 0),
	})
	r := NewAssembler(defaultAnalysis(), defaultAnomaly()).Assemble(Input{Series: s, GeneratedAt: generatedAt})

	assert.False(t, r.Windows[0].Stats.Sufficient()) // 30m
	assert.False(t, r.Windows[1].Stats.Sufficient()) // 1h
	assert.True(t, r.Windows[2].Stats.Sufficient())  // 24h
	assert.True(t, r.SinceStart.Sufficient())
	assert.False(t, r.Variance.Sufficient())
}
