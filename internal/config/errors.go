package config

import "errors"

var (
	ErrReadingConfigFile       = errors.New("failed to read config file")
	ErrUnmarshallingConfig     = errors.New("failed to unmarshal config")
	ErrConfigFileMissing       = errors.New("config file not found")
	ErrInvalidGapThreshold     = errors.New("analysis gapThreshold must be at least 1s")
	ErrInvalidVarianceWindow   = errors.New("analysis varianceWindow must be at least 1s")
	ErrInvalidVarianceMinimum  = errors.New("analysis varianceMinimum must be at least 2")
	ErrInvalidWindow           = errors.New("analysis window needs a name and a length of at least 1s")
	ErrInvalidAnomalyThreshold = errors.New("anomaly thresholds cannot be negative")
	ErrEmptyOutputPath         = errors.New("report output and paths outputDir cannot be empty")
	ErrEmptyPublishBrokers     = errors.New("publish brokers list cannot be empty when publishing is enabled")
	ErrEmptyPublishTopic       = errors.New("publish topic cannot be empty when publishing is enabled")
)
