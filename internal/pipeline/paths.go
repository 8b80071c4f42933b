package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sanspareilsmyn/moltlens/internal/config"
)

const dateLayout = "2006-01-02"

// Paths are the concrete files one dated run reads and writes.
type Paths struct {
	ReportLog     string // input of the markdown report
	RawLog        string
	HourlyJSON    string
	Report        string
	HourlyCSV     string
	HourlySVG     string
	GapsJSON      string
	AnomaliesJSON string
}

// ResolvePaths expands the configured directories for date (YYYY-MM-DD).
func ResolvePaths(cfg *config.Config, date string) (Paths, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return Paths{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	out := cfg.Paths.OutputDir
	p := Paths{
		RawLog:        filepath.Join(cfg.Paths.RawDir, date+".log"),
		HourlyJSON:    filepath.Join(cfg.Paths.HourlyDir, date+".json"),
		Report:        cfg.Report.Output,
		HourlyCSV:     filepath.Join(out, "hourly_"+date+".csv"),
		HourlySVG:     filepath.Join(out, "hourly_"+date+".svg"),
		GapsJSON:      filepath.Join(out, "gaps_"+date+".json"),
		AnomaliesJSON: filepath.Join(out, "anomalies_"+date+".json"),
	}
	p.ReportLog = p.RawLog
	if cfg.Report.LogPath != "" {
		p.ReportLog = cfg.Report.LogPath
	}
	return p, nil
}
