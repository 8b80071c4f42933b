package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sanspareilsmyn/moltlens/internal/analytics"
)

// GapReport is the machine-readable gap artifact.
type GapReport struct {
	Date string          `json:"date"`
	Gaps []analytics.Gap `json:"gaps"`
}

// AnomalyReport is the machine-readable anomaly artifact.
type AnomalyReport struct {
	Date  string           `json:"date"`
	Flags []analytics.Flag `json:"flags"`
}

func (r Report) GapReport() GapReport {
	gaps := r.Gaps
	if gaps == nil {
		gaps = []analytics.Gap{}
	}
	return GapReport{Date: r.Date, Gaps: gaps}
}

func (r Report) AnomalyReport() AnomalyReport {
	flags := r.Flags
	if flags == nil {
		flags = []analytics.Flag{}
	}
	return AnomalyReport{Date: r.Date, Flags: flags}
}

// WriteJSON writes v indented by two spaces.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	return nil
}
