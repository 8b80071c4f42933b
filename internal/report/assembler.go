package report

import (
	"time"

	"github.com/sanspareilsmyn/moltlens/internal/analytics"
	"github.com/sanspareilsmyn/moltlens/internal/config"
	"github.com/sanspareilsmyn/moltlens/internal/hourly"
	"github.com/sanspareilsmyn/moltlens/internal/sample"
)

// Input is everything one run computes over. Date and GeneratedAt are passed
// in so the assembler never consults the wall clock.
type Input struct {
	Date        string
	GeneratedAt time.Time
	Series      sample.Series
	Dropped     int
	Hours       []hourly.Record
}

// WindowReport is one named trailing window.
type WindowReport struct {
	Name   string                                   `json:"name"`
	Length time.Duration                            `json:"-"`
	Stats  analytics.Outcome[analytics.WindowStats] `json:"stats"`
}

// Report is the assembled result of one run.
type Report struct {
	Date           string                                     `json:"date"`
	GeneratedAt    time.Time                                  `json:"generated_at"`
	Latest         analytics.Outcome[sample.Sample]           `json:"latest"`
	Windows        []WindowReport                             `json:"windows"`
	VarianceWindow time.Duration                              `json:"-"`
	Variance       analytics.Outcome[analytics.VarianceStats] `json:"variance"`
	SinceStart     analytics.Outcome[analytics.WindowStats]   `json:"since_start"`
	SampleCount    int                                        `json:"samples"`
	DroppedLines   int                                        `json:"dropped_lines"`
	Gaps           []analytics.Gap                            `json:"gaps"`
	Flags          []analytics.Flag                           `json:"flags"`
	Hours          []hourly.Record                            `json:"-"`
}

// Assembler composes the analytics into a Report. It holds only configuration.
type Assembler struct {
	analysis   config.AnalysisConfig
	classifier *analytics.Classifier
}

func NewAssembler(analysis config.AnalysisConfig, anomaly config.AnomalyConfig) *Assembler {
	return &Assembler{
		analysis: analysis,
		classifier: analytics.NewClassifier(analytics.Thresholds{
			MinSamples:       anomaly.MinSamples,
			HourlyRateFloor:  anomaly.HourlyRateFloor,
			PerMinuteCeiling: anomaly.PerMinuteCeiling,
		}),
	}
}

// Assemble runs every calculator over in. Insufficient data surfaces as
// Insufficient outcomes inside the Report, never as an error.
func (a *Assembler) Assemble(in Input) Report {
	r := Report{
		Date:           in.Date,
		GeneratedAt:    in.GeneratedAt,
		Latest:         analytics.Insufficient[sample.Sample](),
		VarianceWindow: a.analysis.VarianceWindow,
		SampleCount:    in.Series.Len(),
		DroppedLines:   in.Dropped,
		Hours:          in.Hours,
	}
	if last, ok := in.Series.Last(); ok {
		r.Latest = analytics.Available(last)
	}

	for _, w := range a.analysis.Windows {
		r.Windows = append(r.Windows, WindowReport{
			Name:   w.Name,
			Length: w.Length,
			Stats:  analytics.Window(in.Series, seconds(w.Length)),
		})
	}

	r.Variance = analytics.Variance(in.Series, seconds(a.analysis.VarianceWindow), a.analysis.VarianceMinimum)
	r.SinceStart = analytics.SinceStart(in.Series)
	r.Gaps = analytics.Gaps(in.Series, seconds(a.analysis.GapThreshold))
	r.Flags = a.classifier.Classify(in.Hours)
	return r
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
