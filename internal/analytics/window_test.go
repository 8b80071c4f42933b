package analytics

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanspareilsmyn/moltlens/internal/sample"
)

// baseTime is a fixed reference point so all test timings are deterministic.
var baseTime = time.Date(2026, 2, 6, 3, 0, 0, 0, time.UTC)

// point builds a sample offsetSec seconds after baseTime.
func point(offsetSec, molts, likes, views int64) sample.Sample {
	t := baseTime.Add(time.Duration(offsetSec) * time.Second)
	return sample.Sample{
		Timestamp: t.Format(time.RFC3339),
		Epoch:     t.Unix(),
		Counters:  sample.Counters{Molts: molts, Likes: likes, Views: views},
	}
}

func series(points ...sample.Sample) sample.Series {
	return sample.NewSeries(points)
}

func TestWindow_WorkedExample(t *testing.T) {
	s := series(
		point(0, 100, 50, 900),
		point(30, 100, 50, 900),
		point(90, 130, 60, 950),
	)

	w, ok := Window(s, 90).Get()
	require.True(t, ok)

	assert.Equal(t, int64(90), w.ElapsedSeconds)
	assert.Equal(t, sample.Counters{Molts: 30, Likes: 10, Views: 50}, w.Delta)
	assert.Equal(t, "20.00", fmt.Sprintf("%.2f", w.PerMinute.Molts))
	assert.Equal(t, "1200.00", fmt.Sprintf("%.2f", w.PerHour.Molts))
	assert.Equal(t, "28800.00", fmt.Sprintf("%.2f", w.PerDay.Molts))
	assert.Equal(t, "2026-02-06T03:00:00Z → 2026-02-06T03:01:30Z", w.Label)
	assert.Equal(t, "2026-02-06T03:00:00Z", w.Start.Timestamp)
	assert.Equal(t, "2026-02-06T03:01:30Z", w.End.Timestamp)
}

func TestWindow_TrailingCutoffIsInclusive(t *testing.T) {
	s := series(
		point(0, 0, 0, 0),
		point(100, 10, 0, 0),
		point(160, 40, 0, 0),
	)

	w, ok := Window(s, 60).Get()
	require.True(t, ok)
	assert.Equal(t, int64(60), w.ElapsedSeconds)
	assert.Equal(t, int64(30), w.Delta.Molts)

	// cutoff lands exactly on the first sample
	w, ok = Window(s, 160).Get()
	require.True(t, ok)
	assert.Equal(t, int64(160), w.ElapsedSeconds)
	assert.Equal(t, int64(40), w.Delta.Molts)
}

func TestWindow_Insufficient(t *testing.T) {
	tests := []struct {
		name   string
		s      sample.Series
		window int64
	}{
		{name: "empty", s: series(), window: 3600},
		{name: "single sample", s: series(point(0, 1, 1, 1)), window: 3600},
		{name: "only last sample in window", s: series(point(0, 1, 1, 1), point(4000, 2, 2, 2)), window: 3600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Window(tt.s, tt.window)
			assert.False(t, out.Sufficient())
			_, ok := out.Get()
			assert.False(t, ok)
		})
	}
}

func TestWindow_SharedTimestampClampsElapsed(t *testing.T) {
	s := series(point(10, 5, 0, 0), point(10, 8, 0, 0))

	w, ok := Window(s, 1800).Get()
	require.True(t, ok)
	assert.Equal(t, int64(1), w.ElapsedSeconds)
	assert.Equal(t, int64(3), w.Delta.Molts)
	assert.InDelta(t, 180.0, w.PerMinute.Molts, 1e-9)
}

func TestWindow_DecreasingCounterGoesNegative(t *testing.T) {
	s := series(point(0, 100, 10, 10), point(60, 40, 10, 10))

	w, ok := Window(s, 3600).Get()
	require.True(t, ok)
	assert.Equal(t, int64(-60), w.Delta.Molts)
	assert.InDelta(t, -60.0, w.PerMinute.Molts, 1e-9)
	assert.InDelta(t, -3600.0, w.PerHour.Molts, 1e-9)
}

func TestWindow_RatesStayProportional(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		n := 2 + rng.Intn(20)
		var pts []sample.Sample
		var offset, molts, likes, views int64
		for i := 0; i < n; i++ {
			offset += int64(rng.Intn(300))
			molts += int64(rng.Intn(1000))
			likes += int64(rng.Intn(500))
			views += int64(rng.Intn(100000))
			pts = append(pts, point(offset, molts, likes, views))
		}
		s := series(pts...)

		for _, out := range []Outcome[WindowStats]{Window(s, 1800), Window(s, 86400), SinceStart(s)} {
			w, ok := out.Get()
			if !ok {
				continue
			}
			assert.GreaterOrEqual(t, w.ElapsedSeconds, int64(1))
			for _, pair := range [][3]float64{
				{w.PerMinute.Molts, w.PerHour.Molts, w.PerDay.Molts},
				{w.PerMinute.Likes, w.PerHour.Likes, w.PerDay.Likes},
				{w.PerMinute.Views, w.PerHour.Views, w.PerDay.Views},
			} {
				assert.InDelta(t, 60*pair[0], pair[1], tolerance(pair[1]))
				assert.InDelta(t, 1440*pair[0], pair[2], tolerance(pair[2]))
			}
		}
	}
}

func tolerance(v float64) float64 {
	return 1e-9 * math.Max(1, math.Abs(v))
}

func TestSinceStart_UsesFullSpan(t *testing.T) {
	s := series(
		point(0, 100, 50, 900),
		point(50000, 150, 70, 1900),
		point(90000, 300, 90, 2900),
	)

	// the 24h window drops the first sample, since-start keeps it
	w24, ok := Window(s, 86400).Get()
	require.True(t, ok)
	assert.Equal(t, int64(40000), w24.ElapsedSeconds)

	all, ok := SinceStart(s).Get()
	require.True(t, ok)
	assert.Equal(t, int64(90000), all.ElapsedSeconds)
	assert.Equal(t, sample.Counters{Molts: 200, Likes: 40, Views: 2000}, all.Delta)
	assert.InDelta(t, 200.0*86400/90000, all.PerDay.Molts, 1e-9)

	assert.False(t, SinceStart(series(point(0, 1, 1, 1))).Sufficient())
}

func TestOutcome_JSON(t *testing.T) {
	data, err := json.Marshal(Insufficient[VarianceStats]())
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(data))

	data, err = json.Marshal(Available(Gap{From: "a", To: "b", GapSeconds: 3}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":"a","to":"b","gap_sec":3}`, string(data))

	var zero Outcome[int]
	assert.False(t, zero.Sufficient())
}
