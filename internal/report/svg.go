package report

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/sanspareilsmyn/moltlens/internal/hourly"
)

const (
	chartWidth   = 900
	chartHeight  = 260
	chartPadding = 30
)

// WriteSVG plots rate_per_hour.molts for each hour as a line chart. With no
// records it emits an empty canvas of the same size.
func WriteSVG(w io.Writer, hours []hourly.Record) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(chartWidth, chartHeight)

	if len(hours) == 0 {
		canvas.End()
		return ew.result()
	}

	values := make([]float64, len(hours))
	for i, h := range hours {
		values[i] = h.RatePerHour.Molts
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := math.Max(1, hi-lo)

	plotW := float64(chartWidth - 2*chartPadding)
	plotH := float64(chartHeight - 2*chartPadding)
	xStep := plotW / math.Max(1, float64(len(values)-1))

	xs := make([]int, len(values))
	ys := make([]int, len(values))
	for i, v := range values {
		xs[i] = int(math.Round(chartPadding + float64(i)*xStep))
		ys[i] = int(math.Round(chartHeight - chartPadding - (v-lo)/span*plotH))
	}

	canvas.Rect(0, 0, chartWidth, chartHeight, `fill="#0e1116"`)
	canvas.Gstyle("stroke:#2b313b;stroke-width:1")
	canvas.Line(chartPadding, chartHeight-chartPadding, chartWidth-chartPadding, chartHeight-chartPadding)
	canvas.Line(chartPadding, chartPadding, chartPadding, chartHeight-chartPadding)
	canvas.Gend()
	canvas.Polyline(xs, ys, "fill:none;stroke:#e6edf3;stroke-width:2")
	canvas.Text(chartPadding, chartPadding-8, "Hourly Molts rate (per hour)", "fill:#9aa6b2;font-size:12px")
	canvas.Text(chartPadding, chartHeight-8, fmt.Sprintf("min %.2f · max %.2f", lo, hi), "fill:#9aa6b2;font-size:11px")
	canvas.End()

	return ew.result()
}

// errWriter remembers the first write error, since svgo does not report one.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) result() error {
	if e.err != nil {
		return fmt.Errorf("%w: %w", ErrRenderFailed, e.err)
	}
	return nil
}
