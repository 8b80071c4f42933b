package analytics

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/sanspareilsmyn/moltlens/internal/sample"
)

// Variance measures short-interval volatility of the molt rate. Over the
// trailing windowSeconds it takes the per-minute rate between each pair of
// consecutive samples and reports their mean, population standard deviation,
// min and max. Fewer than minSamples samples in the window is Insufficient.
func Variance(series sample.Series, windowSeconds int64, minSamples int) Outcome[VarianceStats] {
	last, ok := series.Last()
	if !ok {
		return Insufficient[VarianceStats]()
	}
	win := series.Since(last.Epoch - windowSeconds)
	if win.Len() < minSamples || win.Len() < 2 {
		return Insufficient[VarianceStats]()
	}

	perMinute := make(stats.Float64Data, 0, win.Len()-1)
	for i := 1; i < win.Len(); i++ {
		prev, cur := win.At(i-1), win.At(i)
		elapsed := elapsedSeconds(prev.Epoch, cur.Epoch)
		perMinute = append(perMinute, rate(cur.Molts-prev.Molts, elapsed, secondsPerMinute))
	}

	mean, err := stats.Mean(perMinute)
	if err != nil {
		return Insufficient[VarianceStats]()
	}
	std, err := stats.StandardDeviationPopulation(perMinute)
	if err != nil {
		return Insufficient[VarianceStats]()
	}
	lo, err := stats.Min(perMinute)
	if err != nil {
		return Insufficient[VarianceStats]()
	}
	hi, err := stats.Max(perMinute)
	if err != nil {
		return Insufficient[VarianceStats]()
	}

	// Summation rounding can push the mean of identical rates just outside [min, max].
	mean = math.Min(math.Max(mean, lo), hi)

	return Available(VarianceStats{
		SampleCount: len(perMinute),
		Average:     mean,
		StdDev:      std,
		Min:         lo,
		Max:         hi,
	})
}
