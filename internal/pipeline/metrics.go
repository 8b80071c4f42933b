package pipeline

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sanspareilsmyn/moltlens/internal/analytics"
	"github.com/sanspareilsmyn/moltlens/internal/report"
)

// Metrics holds the gauges describing the latest run. A batch job has no
// /metrics endpoint, so they live on a private registry that is dumped to a
// node_exporter textfile.
type Metrics struct {
	registry *prometheus.Registry

	samplesParsed    prometheus.Gauge
	linesDropped     prometheus.Gauge
	windowRate       *prometheus.GaugeVec
	windowSufficient *prometheus.GaugeVec
	varianceStdDev   prometheus.Gauge
	gapsDetected     prometheus.Gauge
	anomalyFlags     *prometheus.GaugeVec
	lastRun          prometheus.Gauge
	runs             *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		samplesParsed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "moltlens_samples_parsed",
			Help: "Number of samples in the series of the last run.",
		}),
		linesDropped: factory.NewGauge(prometheus.GaugeOpts{
			Name: "moltlens_lines_dropped",
			Help: "Number of malformed log lines dropped in the last run.",
		}),
		windowRate: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "moltlens_window_rate_per_minute",
				Help: "Per-minute counter rate over each trailing window.",
			},
			[]string{"window", "counter"}, // counter: molts, likes, views
		),
		windowSufficient: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "moltlens_window_sufficient",
				Help: "1 when the window had enough samples to compute rates, else 0.",
			},
			[]string{"window"},
		),
		varianceStdDev: factory.NewGauge(prometheus.GaugeOpts{
			Name: "moltlens_variance_stddev_per_minute",
			Help: "Population standard deviation of per-minute molt rates in the variance window.",
		}),
		gapsDetected: factory.NewGauge(prometheus.GaugeOpts{
			Name: "moltlens_gaps_detected",
			Help: "Number of sampling gaps at or above the configured threshold.",
		}),
		anomalyFlags: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "moltlens_anomaly_flags",
				Help: "Number of hourly records flagged, by reason.",
			},
			[]string{"reason"},
		),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "moltlens_last_run_timestamp_seconds",
			Help: "Unix time the last run was generated at.",
		}),
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moltlens_runs_total",
				Help: "Runs by command and outcome.",
			},
			[]string{"command", "status"},
		),
	}
}

// Observe records the statistics of an assembled report.
func (m *Metrics) Observe(r report.Report) {
	m.samplesParsed.Set(float64(r.SampleCount))
	m.linesDropped.Set(float64(r.DroppedLines))
	m.lastRun.Set(float64(r.GeneratedAt.Unix()))

	m.windowRate.Reset()
	m.windowSufficient.Reset()
	for _, w := range r.Windows {
		st, ok := w.Stats.Get()
		if !ok {
			m.windowSufficient.WithLabelValues(w.Name).Set(0)
			continue
		}
		m.windowSufficient.WithLabelValues(w.Name).Set(1)
		m.windowRate.WithLabelValues(w.Name, "molts").Set(st.PerMinute.Molts)
		m.windowRate.WithLabelValues(w.Name, "likes").Set(st.PerMinute.Likes)
		m.windowRate.WithLabelValues(w.Name, "views").Set(st.PerMinute.Views)
	}

	if v, ok := r.Variance.Get(); ok {
		m.varianceStdDev.Set(v.StdDev)
	} else {
		m.varianceStdDev.Set(0)
	}

	m.gapsDetected.Set(float64(len(r.Gaps)))

	counts := map[analytics.Reason]int{
		analytics.ReasonZeroRate:        0,
		analytics.ReasonLowRateHighHour: 0,
	}
	for _, f := range r.Flags {
		counts[f.Reason]++
	}
	for reason, n := range counts {
		m.anomalyFlags.WithLabelValues(string(reason)).Set(float64(n))
	}
}

// RecordRun counts one command execution.
func (m *Metrics) RecordRun(command string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.runs.WithLabelValues(command, status).Inc()
}

// WriteTextfile atomically writes the registry in text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrMetricsFailed, err)
	}
	return nil
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
