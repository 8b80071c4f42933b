package analytics

import "github.com/sanspareilsmyn/moltlens/internal/sample"

// Rates is a per-counter rate over one time unit.
type Rates struct {
	Molts float64 `json:"molts"`
	Likes float64 `json:"likes"`
	Views float64 `json:"views"`
}

// WindowStats holds deltas and rates between the first and last sample of a window.
type WindowStats struct {
	Label          string          `json:"window"`
	Start          sample.Sample   `json:"start"`
	End            sample.Sample   `json:"end"`
	ElapsedSeconds int64           `json:"elapsed_sec"`
	Delta          sample.Counters `json:"delta"`
	PerMinute      Rates           `json:"rate_per_min"`
	PerHour        Rates           `json:"rate_per_hour"`
	PerDay         Rates           `json:"rate_per_day"`
}

// VarianceStats summarises the per-minute molt rates between consecutive samples.
type VarianceStats struct {
	SampleCount int     `json:"samples"` // number of rates, one per consecutive pair
	Average     float64 `json:"avg"`
	StdDev      float64 `json:"std"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
}

// Gap is a collection outage between two consecutive samples.
type Gap struct {
	From       string `json:"from"`
	To         string `json:"to"`
	GapSeconds int64  `json:"gap_sec"`
}

type Reason string

const (
	ReasonZeroRate        Reason = "zero_rate"
	ReasonLowRateHighHour Reason = "low_rate_high_hour"
)

// Flag marks one hourly record as suspicious.
type Flag struct {
	Hour   string `json:"hour"`
	Reason Reason `json:"reason"`
}
