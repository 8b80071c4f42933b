package analytics

import "github.com/sanspareilsmyn/moltlens/internal/sample"

// Gaps returns every consecutive pair whose spacing is at least thresholdSeconds,
// in series order. The result is never nil.
func Gaps(series sample.Series, thresholdSeconds int64) []Gap {
	gaps := []Gap{}
	for i := 1; i < series.Len(); i++ {
		prev, cur := series.At(i-1), series.At(i)
		if dt := cur.Epoch - prev.Epoch; dt >= thresholdSeconds {
			gaps = append(gaps, Gap{From: prev.Timestamp, To: cur.Timestamp, GapSeconds: dt})
		}
	}
	return gaps
}
