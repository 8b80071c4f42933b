package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/moltlens/internal/simulate"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "loggen: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		date     string
		outDir   string
		settings = simulate.DefaultSettings(time.Time{})
	)

	cmd := &cobra.Command{
		Use:           "loggen",
		Short:         "Generate a synthetic MoltX counter log for one day",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()
			sugar := logger.Sugar()

			start, err := time.Parse("2006-01-02", date)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", date, err)
			}
			settings.Start = start

			gen, err := simulate.NewGenerator(settings)
			if err != nil {
				return err
			}
			samples := gen.Samples()

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			path := filepath.Join(outDir, date+".log")
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := simulate.WriteLog(f, samples); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			sugar.Infow("Synthetic log written", "path", path, "samples", len(samples), "seed", settings.Seed)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&date, "date", time.Now().UTC().Format("2006-01-02"), "day to generate (YYYY-MM-DD)")
	flags.StringVar(&outDir, "out", "data/raw", "directory the <date>.log file is written to")
	flags.Int64Var(&settings.Seed, "seed", settings.Seed, "random seed")
	flags.DurationVar(&settings.Interval, "interval", settings.Interval, "mean sampling interval")
	flags.DurationVar(&settings.Duration, "duration", settings.Duration, "span of generated samples")
	flags.Float64Var(&settings.OutageProbability, "outage-prob", settings.OutageProbability, "chance per sample of an outage")
	flags.Float64Var(&settings.BurstProbability, "burst-prob", settings.BurstProbability, "chance per sample of a molt burst")
	flags.Float64Var(&settings.MoltsPerMinute, "molts-per-min", settings.MoltsPerMinute, "baseline molt rate")
	return cmd
}
