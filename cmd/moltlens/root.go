package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/moltlens/internal/config"
	"github.com/sanspareilsmyn/moltlens/internal/logging"
	"github.com/sanspareilsmyn/moltlens/internal/pipeline"
)

const dateLayout = "2006-01-02"

type app struct {
	configPath string
	date       string
	now        func() time.Time
}

type runFunc func(p *pipeline.Pipeline, ctx context.Context, date string, now time.Time) error

func newRootCommand(out, errOut io.Writer, now func() time.Time) *cobra.Command {
	a := &app{now: now}

	cmd := &cobra.Command{
		Use:           "moltlens",
		Short:         "Counter log analytics for MoltX",
		Long:          "moltlens turns a day of MoltX counter samples and hourly aggregates into a markdown report, CSV/SVG hourly artifacts, and gap and anomaly JSON.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to the configuration file (defaults plus MOLTLENS_* env when empty)")
	cmd.PersistentFlags().StringVar(&a.date, "date", "", "run date as YYYY-MM-DD (default today, UTC)")

	cmd.AddCommand(
		a.newCommand(pipeline.CommandReport, "Write the markdown counter report", (*pipeline.Pipeline).RunReport),
		a.newCommand(pipeline.CommandArtifacts, "Write hourly CSV/SVG and gap/anomaly JSON", (*pipeline.Pipeline).RunArtifacts),
		a.newCommand(pipeline.CommandRun, "Write the report and all artifacts", (*pipeline.Pipeline).Run),
	)
	return cmd
}

func (a *app) newCommand(name, short string, run runFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.execute(cmd, name, run)
		},
	}
}

func (a *app) execute(cmd *cobra.Command, name string, run runFunc) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Flush buffered logs on exit
	}()

	sugar := logger.Sugar()
	sugar.Infow("Configuration loaded", "path", a.configPath, "command", name)

	now := a.now().UTC()
	date := a.date
	if date == "" {
		date = now.Format(dateLayout)
	}

	pipe, err := pipeline.New(cfg, logger)
	if err != nil {
		sugar.Errorw("Failed to initialize pipeline", zap.Error(err))
		return err
	}
	defer func() {
		if cErr := pipe.Close(); cErr != nil {
			sugar.Warnw("Failed to close publisher", zap.Error(cErr))
		}
	}()

	if err := run(pipe, cmd.Context(), date, now); err != nil {
		return err
	}

	paths, err := pipeline.ResolvePaths(cfg, date)
	if err != nil {
		return err
	}
	printOutputs(cmd.OutOrStdout(), name, paths)
	return nil
}

func printOutputs(w io.Writer, command string, p pipeline.Paths) {
	if command != pipeline.CommandArtifacts {
		fmt.Fprintf(w, "wrote %s\n", p.Report)
	}
	if command != pipeline.CommandReport {
		for _, path := range []string{p.HourlyCSV, p.HourlySVG, p.GapsJSON, p.AnomaliesJSON} {
			fmt.Fprintf(w, "wrote %s\n", path)
		}
	}
}
