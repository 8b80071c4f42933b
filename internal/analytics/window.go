package analytics

import (
	"github.com/sanspareilsmyn/moltlens/internal/sample"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
)

// Window computes deltas and rates over the trailing windowSeconds ending at
// the last sample of series. Fewer than two samples in the window is Insufficient.
func Window(series sample.Series, windowSeconds int64) Outcome[WindowStats] {
	last, ok := series.Last()
	if !ok {
		return Insufficient[WindowStats]()
	}
	return span(series.Since(last.Epoch - windowSeconds))
}

// SinceStart computes deltas and rates across the whole series.
func SinceStart(series sample.Series) Outcome[WindowStats] {
	return span(series)
}

func span(win sample.Series) Outcome[WindowStats] {
	if win.Len() < 2 {
		return Insufficient[WindowStats]()
	}
	first, _ := win.First()
	last, _ := win.Last()

	elapsed := elapsedSeconds(first.Epoch, last.Epoch)
	delta := last.Counters.Sub(first.Counters)

	return Available(WindowStats{
		Label:          first.Timestamp + " → " + last.Timestamp,
		Start:          first,
		End:            last,
		ElapsedSeconds: elapsed,
		Delta:          delta,
		PerMinute:      ratesOver(delta, elapsed, secondsPerMinute),
		PerHour:        ratesOver(delta, elapsed, secondsPerHour),
		PerDay:         ratesOver(delta, elapsed, secondsPerDay),
	})
}

// elapsedSeconds is floored at 1 so samples sharing a timestamp never divide by zero.
func elapsedSeconds(from, to int64) int64 {
	if d := to - from; d > 1 {
		return d
	}
	return 1
}

func ratesOver(delta sample.Counters, elapsed, unit int64) Rates {
	return Rates{
		Molts: rate(delta.Molts, elapsed, unit),
		Likes: rate(delta.Likes, elapsed, unit),
		Views: rate(delta.Views, elapsed, unit),
	}
}

func rate(delta, elapsed, unit int64) float64 {
	return float64(delta) * float64(unit) / float64(elapsed)
}
