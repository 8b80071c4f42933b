package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sanspareilsmyn/moltlens/internal/hourly"
)

func record(hour string, samples int, perMin, perHour float64) hourly.Record {
	return hourly.Record{
		Hour:        hour,
		Samples:     samples,
		RatePerMin:  hourly.Counts{Molts: perMin},
		RatePerHour: hourly.Counts{Molts: perHour},
	}
}

func TestClassify_Rules(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	tests := []struct {
		name string
		rec  hourly.Record
		want []Reason
	}{
		{name: "burst read as steady rate", rec: record("h", 6, 2, 600), want: []Reason{ReasonLowRateHighHour}},
		{name: "zero rate", rec: record("h", 10, 0, 0), want: []Reason{ReasonZeroRate}},
		{name: "healthy hour", rec: record("h", 60, 10, 600), want: nil},
		{name: "too few samples", rec: record("h", 4, 2, 600), want: nil},
		{name: "hourly rate at floor", rec: record("h", 6, 2, 500), want: nil},
		{name: "per-minute at ceiling", rec: record("h", 6, 5, 600), want: nil},
		{name: "negative rate", rec: record("h", 6, -1, 600), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Reason
			for _, f := range c.Classify([]hourly.Record{tt.rec}) {
				assert.Equal(t, "h", f.Hour)
				got = append(got, f.Reason)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_RulesEvaluatedIndependently(t *testing.T) {
	c := NewClassifier(Thresholds{MinSamples: 0, HourlyRateFloor: -1, PerMinuteCeiling: 5})
	rec := record("03", 1, 0, 0)

	// low_rate_high_hour needs perMin > 0, so a zero-rate hour only gets zero_rate
	assert.Equal(t, []Flag{{Hour: "03", Reason: ReasonZeroRate}}, c.Classify([]hourly.Record{rec}))

	rec = record("04", 1, 0.5, 0)
	assert.Equal(t, []Flag{{Hour: "04", Reason: ReasonLowRateHighHour}}, c.Classify([]hourly.Record{rec}))
}

func TestClassify_PureAndOrdered(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	records := []hourly.Record{
		record("2026-02-06T05", 6, 0, 0),
		record("2026-02-06T03", 6, 2, 600),
		record("2026-02-06T04", 60, 12, 720),
		record("2026-02-06T06", 1, 0, 0),
	}

	first := c.Classify(records)
	second := c.Classify(records)
	assert.Equal(t, first, second)
	assert.Equal(t, []Flag{
		{Hour: "2026-02-06T05", Reason: ReasonZeroRate},
		{Hour: "2026-02-06T03", Reason: ReasonLowRateHighHour},
		{Hour: "2026-02-06T06", Reason: ReasonZeroRate},
	}, first)

	assert.NotNil(t, c.Classify(nil))
	assert.Empty(t, c.Classify(nil))
}
