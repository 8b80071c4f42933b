package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sanspareilsmyn/moltlens/internal/hourly"
)

var csvHeader = []string{
	"hour", "samples",
	"delta_molts", "delta_likes", "delta_views",
	"rate_molts_per_min", "rate_likes_per_min", "rate_views_per_min",
	"rate_molts_per_hour", "rate_likes_per_hour", "rate_views_per_hour",
}

// WriteCSV writes one row per hourly record under a fixed header.
func WriteCSV(w io.Writer, hours []hourly.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	for _, h := range hours {
		row := []string{
			h.Hour,
			strconv.Itoa(h.Samples),
			number(h.Delta.Molts), number(h.Delta.Likes), number(h.Delta.Views),
			number(h.RatePerMin.Molts), number(h.RatePerMin.Likes), number(h.RatePerMin.Views),
			number(h.RatePerHour.Molts), number(h.RatePerHour.Likes), number(h.RatePerHour.Views),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: %w", ErrRenderFailed, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	return nil
}

// number prints the shortest decimal that round-trips, so 30 stays "30" and 2.5 stays "2.5".
func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
