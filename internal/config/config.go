package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultRawDir            = "data/raw"
	defaultHourlyDir         = "data/hourly"
	defaultOutputDir         = "data"
	defaultReportOutput      = "REPORT.md"
	defaultGapThreshold      = 120 * time.Second
	defaultVarianceWindow    = time.Hour
	defaultVarianceMinimum   = 3
	defaultAnomalyMinSamples = 5
	defaultHourlyRateFloor   = 500.0
	defaultPerMinuteCeiling  = 5.0
	defaultPublishEnabled    = false
	defaultPublishTopic      = "moltlens-reports"
	defaultPublishTimeout    = 10 * time.Second
	defaultLogLevel          = "info"
	defaultLogFormat         = "console"
	defaultLogFileEnabled    = false
	defaultLogDirectory      = "log"
	defaultLogFilename       = "moltlens.log"
	defaultLogMaxSizeMB      = 100
	defaultLogMaxBackups     = 3
	defaultLogMaxAgeDays     = 7
	defaultLogCompress       = false

	// Environment variable prefix
	envPrefix = "MOLTLENS"
)

type Config struct {
	Paths    PathsConfig    `mapstructure:"paths"`
	Report   ReportConfig   `mapstructure:"report"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Anomaly  AnomalyConfig  `mapstructure:"anomaly"`
	Publish  PublishConfig  `mapstructure:"publish"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

// PathsConfig locates the dated inputs and the artifact output directory.
type PathsConfig struct {
	RawDir    string `mapstructure:"rawDir"`
	HourlyDir string `mapstructure:"hourlyDir"`
	OutputDir string `mapstructure:"outputDir"`
}

type ReportConfig struct {
	LogPath string `mapstructure:"logPath"` // empty means the dated raw log
	Output  string `mapstructure:"output"`
}

type AnalysisConfig struct {
	Windows         []WindowConfig `mapstructure:"windows"`
	GapThreshold    time.Duration  `mapstructure:"gapThreshold"`
	VarianceWindow  time.Duration  `mapstructure:"varianceWindow"`
	VarianceMinimum int            `mapstructure:"varianceMinimum"` // min samples inside the variance window
}

type WindowConfig struct {
	Name   string        `mapstructure:"name"`
	Length time.Duration `mapstructure:"length"`
}

type AnomalyConfig struct {
	MinSamples       int     `mapstructure:"minSamples"`
	HourlyRateFloor  float64 `mapstructure:"hourlyRateFloor"`
	PerMinuteCeiling float64 `mapstructure:"perMinuteCeiling"`
}

type PublishConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Brokers []string      `mapstructure:"brokers"`
	Topic   string        `mapstructure:"topic"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"` // node_exporter textfile collector target, empty disables
}

type LogConfig struct {
	Level              string `mapstructure:"level"`
	Format             string `mapstructure:"format"`
	FileLoggingEnabled bool   `mapstructure:"fileLoggingEnabled"`
	Directory          string `mapstructure:"directory"`
	Filename           string `mapstructure:"filename"`
	MaxSize            int    `mapstructure:"maxSize"`    // Max size in MB
	MaxBackups         int    `mapstructure:"maxBackups"` // Max backup files
	MaxAge             int    `mapstructure:"maxAge"`     // Max days to retain
	Compress           bool   `mapstructure:"compress"`
}

// DefaultWindows returns the trailing windows rendered in the markdown report.
func DefaultWindows() []WindowConfig {
	return []WindowConfig{
		{Name: "Last 30 minutes", Length: 30 * time.Minute},
		{Name: "Last 1 hour", Length: time.Hour},
		{Name: "Last 24 hours", Length: 24 * time.Hour},
	}
}

// Load initializes viper, reads config, applies defaults, unmarshals, and validates.
// An empty configPath skips the file and uses defaults plus environment overrides.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	configureViper(v, configPath)

	setDefaults(v)

	if configPath != "" {
		if err := readConfigFile(v, configPath); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshallingConfig, err)
	}
	if len(cfg.Analysis.Windows) == 0 {
		cfg.Analysis.Windows = DefaultWindows()
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// configureViper sets up viper instance for file and environment variables.
func configureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.rawDir", defaultRawDir)
	v.SetDefault("paths.hourlyDir", defaultHourlyDir)
	v.SetDefault("paths.outputDir", defaultOutputDir)
	v.SetDefault("report.logPath", "")
	v.SetDefault("report.output", defaultReportOutput)
	v.SetDefault("analysis.gapThreshold", defaultGapThreshold)
	v.SetDefault("analysis.varianceWindow", defaultVarianceWindow)
	v.SetDefault("analysis.varianceMinimum", defaultVarianceMinimum)
	v.SetDefault("anomaly.minSamples", defaultAnomalyMinSamples)
	v.SetDefault("anomaly.hourlyRateFloor", defaultHourlyRateFloor)
	v.SetDefault("anomaly.perMinuteCeiling", defaultPerMinuteCeiling)
	v.SetDefault("publish.enabled", defaultPublishEnabled)
	v.SetDefault("publish.brokers", []string{})
	v.SetDefault("publish.topic", defaultPublishTopic)
	v.SetDefault("publish.timeout", defaultPublishTimeout)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.fileLoggingEnabled", defaultLogFileEnabled)
	v.SetDefault("log.directory", defaultLogDirectory)
	v.SetDefault("log.filename", defaultLogFilename)
	v.SetDefault("log.maxSize", defaultLogMaxSizeMB)
	v.SetDefault("log.maxBackups", defaultLogMaxBackups)
	v.SetDefault("log.maxAge", defaultLogMaxAgeDays)
	v.SetDefault("log.compress", defaultLogCompress)
}

// readConfigFile reads the explicitly requested configuration file.
// viper reports a missing explicit file as a plain fs error, so existence is checked first.
func readConfigFile(v *viper.Viper, configPath string) error {
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrConfigFileMissing, configPath)
	}
	err := v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return ErrConfigFileMissing
		}
		return fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.Analysis.GapThreshold < time.Second {
		return ErrInvalidGapThreshold
	}
	if cfg.Analysis.VarianceWindow < time.Second {
		return ErrInvalidVarianceWindow
	}
	if cfg.Analysis.VarianceMinimum < 2 {
		return ErrInvalidVarianceMinimum
	}
	for _, w := range cfg.Analysis.Windows {
		if w.Name == "" || w.Length < time.Second {
			return fmt.Errorf("%w: %q (%s)", ErrInvalidWindow, w.Name, w.Length)
		}
	}
	if cfg.Anomaly.MinSamples < 0 || cfg.Anomaly.HourlyRateFloor < 0 || cfg.Anomaly.PerMinuteCeiling < 0 {
		return ErrInvalidAnomalyThreshold
	}
	if cfg.Report.Output == "" || cfg.Paths.OutputDir == "" {
		return ErrEmptyOutputPath
	}
	if cfg.Publish.Enabled {
		if len(cfg.Publish.Brokers) == 0 {
			return ErrEmptyPublishBrokers
		}
		if cfg.Publish.Topic == "" {
			return ErrEmptyPublishTopic
		}
	}
	return nil
}
