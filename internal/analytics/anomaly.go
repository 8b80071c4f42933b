package analytics

import "github.com/sanspareilsmyn/moltlens/internal/hourly"

// Thresholds tune the low_rate_high_hour rule. The defaults are provisional
// policy values, not derived from data.
type Thresholds struct {
	MinSamples       int     // hour must hold at least this many samples
	HourlyRateFloor  float64 // rate_per_hour.molts must exceed this
	PerMinuteCeiling float64 // while rate_per_min.molts stays below this
}

func DefaultThresholds() Thresholds {
	return Thresholds{MinSamples: 5, HourlyRateFloor: 500, PerMinuteCeiling: 5}
}

// Classifier flags suspicious hourly aggregates.
type Classifier struct {
	thresholds Thresholds
}

func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// Classify applies both rules to every record independently, so one hour may
// yield two flags. Flags follow input order. The result is never nil.
func (c *Classifier) Classify(records []hourly.Record) []Flag {
	flags := []Flag{}
	for _, h := range records {
		if h.RatePerMin.Molts == 0 {
			flags = append(flags, Flag{Hour: h.Hour, Reason: ReasonZeroRate})
		}
		if c.lowRateHighHour(h) {
			flags = append(flags, Flag{Hour: h.Hour, Reason: ReasonLowRateHighHour})
		}
	}
	return flags
}

// lowRateHighHour catches an hour whose extrapolated hourly rate is far above
// what its per-minute rate supports, typically one burst read as a steady rate.
func (c *Classifier) lowRateHighHour(h hourly.Record) bool {
	t := c.thresholds
	perMin := h.RatePerMin.Molts
	return h.Samples >= t.MinSamples &&
		perMin > 0 &&
		h.RatePerHour.Molts > t.HourlyRateFloor &&
		perMin < t.PerMinuteCeiling
}
