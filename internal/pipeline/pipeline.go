package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/moltlens/internal/config"
	"github.com/sanspareilsmyn/moltlens/internal/hourly"
	"github.com/sanspareilsmyn/moltlens/internal/report"
	"github.com/sanspareilsmyn/moltlens/internal/sample"
)

// Command names used for logging and the runs counter.
const (
	CommandReport    = "report"
	CommandArtifacts = "artifacts"
	CommandRun       = "run"
)

// Pipeline runs one dated batch: check inputs, load, assemble, write, publish.
type Pipeline struct {
	cfg       *config.Config
	assembler *report.Assembler
	publisher Publisher
	metrics   *Metrics
	logger    *zap.Logger
}

type Option func(*Pipeline)

// WithPublisher overrides the publisher built from the publish config.
func WithPublisher(p Publisher) Option {
	return func(pl *Pipeline) { pl.publisher = p }
}

// WithMetrics shares a metrics set, e.g. to inspect it after a run.
func WithMetrics(m *Metrics) Option {
	return func(pl *Pipeline) { pl.metrics = m }
}

// New creates a pipeline for cfg. The Kafka writer connects lazily, so no
// network I/O happens here.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Pipeline, error) {
	initLogger := logger.Named("pipeline.init")

	p := &Pipeline{
		cfg:       cfg,
		assembler: report.NewAssembler(cfg.Analysis, cfg.Anomaly),
		logger:    logger.Named("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.publisher == nil {
		if cfg.Publish.Enabled {
			kp, err := NewKafkaPublisher(cfg.Publish, logger.Named("publisher"))
			if err != nil {
				return nil, err
			}
			p.publisher = kp
		} else {
			p.publisher = nopPublisher{}
		}
	}
	if p.metrics == nil {
		p.metrics = NewMetrics()
	}

	initLogger.Debug("Pipeline instance created",
		zap.Bool("publish", cfg.Publish.Enabled),
		zap.String("metricsTextfile", cfg.Metrics.Textfile),
	)
	return p, nil
}

// RunReport writes the markdown report from the configured report log.
func (p *Pipeline) RunReport(ctx context.Context, date string, now time.Time) error {
	return p.execute(ctx, CommandReport, date, now, true, false)
}

// RunArtifacts writes the hourly CSV/SVG and the gap and anomaly JSON, then
// publishes the latter two when publishing is enabled.
func (p *Pipeline) RunArtifacts(ctx context.Context, date string, now time.Time) error {
	return p.execute(ctx, CommandArtifacts, date, now, false, true)
}

// Run does both. All inputs are checked before anything is written.
func (p *Pipeline) Run(ctx context.Context, date string, now time.Time) error {
	return p.execute(ctx, CommandRun, date, now, true, true)
}

func (p *Pipeline) execute(ctx context.Context, command, date string, now time.Time, withReport, withArtifacts bool) error {
	sugar := p.logger.Sugar().With("command", command, "date", date)
	sugar.Infow("Run starting")

	err := p.run(ctx, sugar, date, now, withReport, withArtifacts)
	p.metrics.RecordRun(command, err)

	if path := p.cfg.Metrics.Textfile; path != "" {
		if mErr := p.metrics.WriteTextfile(path); mErr != nil {
			sugar.Warnw("Failed to write metrics textfile", "path", path, zap.Error(mErr))
			if err == nil {
				err = mErr
			}
		}
	}

	if err != nil {
		sugar.Errorw("Run failed", zap.Error(err))
		return err
	}
	sugar.Infow("Run finished")
	return nil
}

func (p *Pipeline) run(ctx context.Context, sugar *zap.SugaredLogger, date string, now time.Time, withReport, withArtifacts bool) error {
	paths, err := ResolvePaths(p.cfg, date)
	if err != nil {
		return err
	}

	var required []string
	if withReport {
		required = append(required, paths.ReportLog)
	}
	if withArtifacts {
		required = append(required, paths.RawLog, paths.HourlyJSON)
	}
	if err := checkInputs(required...); err != nil {
		return err
	}

	if withReport {
		series, dropped, err := p.loadSeries(sugar, paths.ReportLog)
		if err != nil {
			return err
		}
		r := p.assembler.Assemble(report.Input{
			Date:        date,
			GeneratedAt: now,
			Series:      series,
			Dropped:     dropped,
		})
		if err := writeFile(paths.Report, func(w io.Writer) error { return report.WriteMarkdown(w, r) }); err != nil {
			return err
		}
		p.metrics.Observe(r)
		sugar.Infow("Report written", "path", paths.Report, "samples", r.SampleCount)
	}

	if withArtifacts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.writeArtifacts(ctx, sugar, paths, date, now); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) writeArtifacts(ctx context.Context, sugar *zap.SugaredLogger, paths Paths, date string, now time.Time) error {
	series, dropped, err := p.loadSeries(sugar, paths.RawLog)
	if err != nil {
		return err
	}
	doc, err := hourly.Load(paths.HourlyJSON)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoadFailed, paths.HourlyJSON, err)
	}
	sugar.Debugw("Hourly records loaded", "path", paths.HourlyJSON, "hours", len(doc.Hours))

	r := p.assembler.Assemble(report.Input{
		Date:        date,
		GeneratedAt: now,
		Series:      series,
		Dropped:     dropped,
		Hours:       doc.Hours,
	})

	if err := os.MkdirAll(p.cfg.Paths.OutputDir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	gaps, anomalies := r.GapReport(), r.AnomalyReport()
	outputs := []struct {
		path   string
		render func(io.Writer) error
	}{
		{paths.HourlyCSV, func(w io.Writer) error { return report.WriteCSV(w, r.Hours) }},
		{paths.HourlySVG, func(w io.Writer) error { return report.WriteSVG(w, r.Hours) }},
		{paths.GapsJSON, func(w io.Writer) error { return report.WriteJSON(w, gaps) }},
		{paths.AnomaliesJSON, func(w io.Writer) error { return report.WriteJSON(w, anomalies) }},
	}
	for _, out := range outputs {
		if err := writeFile(out.path, out.render); err != nil {
			return err
		}
	}
	p.metrics.Observe(r)
	sugar.Infow("Artifacts written",
		"outputDir", p.cfg.Paths.OutputDir,
		"hours", len(r.Hours),
		"gaps", len(gaps.Gaps),
		"flags", len(anomalies.Flags),
	)

	return p.publisher.Publish(ctx,
		Event{Type: "gaps", Key: date, Payload: gaps},
		Event{Type: "anomalies", Key: date, Payload: anomalies},
	)
}

func (p *Pipeline) loadSeries(sugar *zap.SugaredLogger, path string) (sample.Series, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return sample.Series{}, 0, fmt.Errorf("%w: %s: %w", ErrLoadFailed, path, err)
	}
	defer f.Close()

	res, err := sample.ParseLog(f)
	if err != nil {
		return sample.Series{}, 0, fmt.Errorf("%w: %s: %w", ErrLoadFailed, path, err)
	}
	if res.Dropped > 0 {
		sugar.Warnw("Dropped malformed log lines", "path", path, "dropped", res.Dropped, "lines", res.Lines)
	}
	sugar.Debugw("Log parsed", "path", path, "samples", len(res.Samples))
	return sample.NewSeries(res.Samples), res.Dropped, nil
}

// Close releases the publisher.
func (p *Pipeline) Close() error {
	return p.publisher.Close()
}

// Metrics exposes the run metrics.
func (p *Pipeline) Metrics() *Metrics {
	return p.metrics
}

func checkInputs(paths ...string) error {
	var missing []error
	for _, path := range paths {
		info, err := os.Stat(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			missing = append(missing, fmt.Errorf("%w: %s", ErrMissingInput, path))
		case err != nil:
			missing = append(missing, fmt.Errorf("%w: %s: %w", ErrLoadFailed, path, err))
		case info.IsDir():
			missing = append(missing, fmt.Errorf("%w: %s is a directory", ErrMissingInput, path))
		}
	}
	return errors.Join(missing...)
}

// writeFile renders into a temp file next to path and renames it into place,
// so a failed render never leaves a truncated output.
func writeFile(path string, render func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	if err := render(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	return nil
}
