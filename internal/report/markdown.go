package report

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/sanspareilsmyn/moltlens/internal/analytics"
)

const notEnoughData = "not enough data"

// WriteMarkdown renders the human-readable counter report.
func WriteMarkdown(w io.Writer, r Report) error {
	b := bufio.NewWriter(w)

	fmt.Fprintf(b, "# MoltX Counter Report\n\n")
	fmt.Fprintf(b, "Generated: %s\n\n", r.GeneratedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"))

	fmt.Fprintf(b, "## Latest\n")
	if latest, ok := r.Latest.Get(); ok {
		fmt.Fprintf(b, "- time: %s\n", latest.Timestamp)
		fmt.Fprintf(b, "- molts: %d\n", latest.Molts)
		fmt.Fprintf(b, "- likes: %d\n", latest.Likes)
		fmt.Fprintf(b, "- views: %d\n", latest.Views)
	} else {
		fmt.Fprintf(b, "- %s\n", notEnoughData)
	}

	fmt.Fprintf(b, "\n## Windowed Rates\n")
	for _, wr := range r.Windows {
		writeWindow(b, wr.Name, wr.Stats)
	}

	fmt.Fprintf(b, "\n## %s Molts Variance (per-minute)\n", shortDuration(r.VarianceWindow))
	if v, ok := r.Variance.Get(); ok {
		fmt.Fprintf(b, "- samples: %d\n", v.SampleCount)
		fmt.Fprintf(b, "- avg/min: %.2f\n", v.Average)
		fmt.Fprintf(b, "- std dev: %.2f\n", v.StdDev)
		fmt.Fprintf(b, "- min: %.2f\n", v.Min)
		fmt.Fprintf(b, "- max: %.2f\n", v.Max)
	} else {
		fmt.Fprintf(b, "- %s\n", notEnoughData)
	}

	fmt.Fprintf(b, "\n## Since Start\n")
	if s, ok := r.SinceStart.Get(); ok {
		fmt.Fprintf(b, "- start: %s\n", s.Start.Timestamp)
		fmt.Fprintf(b, "- end: %s\n", s.End.Timestamp)
		fmt.Fprintf(b, "- duration: %ds\n", s.ElapsedSeconds)
		fmt.Fprintf(b, "- Δ molts: %d\n", s.Delta.Molts)
		fmt.Fprintf(b, "- Δ likes: %d\n", s.Delta.Likes)
		fmt.Fprintf(b, "- Δ views: %d\n", s.Delta.Views)
	} else {
		fmt.Fprintf(b, "- %s\n", notEnoughData)
	}

	fmt.Fprintf(b, "\n## Samples\n")
	fmt.Fprintf(b, "- total samples: %d\n", r.SampleCount)
	if r.DroppedLines > 0 {
		fmt.Fprintf(b, "- dropped lines: %d\n", r.DroppedLines)
	}

	if err := b.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	return nil
}

func writeWindow(b *bufio.Writer, name string, out analytics.Outcome[analytics.WindowStats]) {
	st, ok := out.Get()
	if !ok {
		fmt.Fprintf(b, "- %s: %s\n", name, notEnoughData)
		return
	}
	fmt.Fprintf(b, "- %s (%s)\n", name, st.Label)
	fmt.Fprintf(b, "  - Δ molts %d | %.2f/min %.2f/hour %.2f/day\n", st.Delta.Molts, st.PerMinute.Molts, st.PerHour.Molts, st.PerDay.Molts)
	fmt.Fprintf(b, "  - Δ likes %d | %.2f/min %.2f/hour %.2f/day\n", st.Delta.Likes, st.PerMinute.Likes, st.PerHour.Likes, st.PerDay.Likes)
	fmt.Fprintf(b, "  - Δ views %d | %.2f/min %.2f/hour %.2f/day\n", st.Delta.Views, st.PerMinute.Views, st.PerHour.Views, st.PerDay.Views)
}

// shortDuration renders 1h, 30m or 90s style labels.
func shortDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return fmt.Sprintf("%ds", d/time.Second)
	}
}
