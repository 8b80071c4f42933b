package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sanspareilsmyn/moltlens/internal/config"
)

// NewLogger initializes a zap logger based on the provided configuration.
// Console output goes to stderr so report text piped from stdout stays clean.
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	return newLogger(cfg, zapcore.Lock(os.Stderr))
}

func newLogger(cfg config.LogConfig, console zapcore.WriteSyncer) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARN: %v, defaulting to INFO level\n", err)
		level = zapcore.InfoLevel
	}

	format := strings.ToLower(cfg.Format)
	var cores []zapcore.Core

	switch format {
	case "console":
		cores = append(cores, zapcore.NewCore(buildEncoder(true), console, level))
	case "json":
		cores = append(cores, zapcore.NewCore(buildEncoder(false), console, level))
	case "none", "":
		// file only
	default:
		return nil, fmt.Errorf("unknown log format '%s'", cfg.Format)
	}

	if cfg.FileLoggingEnabled {
		if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory '%s': %w", cfg.Directory, err)
		}

		ljack := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Directory, cfg.Filename),
			MaxSize:    cfg.MaxSize,    // megabytes
			MaxBackups: cfg.MaxBackups, // files
			MaxAge:     cfg.MaxAge,     // days
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(buildEncoder(false), zapcore.AddSync(ljack), level))
	}

	if len(cores) == 0 {
		return nil, fmt.Errorf("no logging outputs configured (format %q and file logging disabled)", cfg.Format)
	}

	loggerOptions := []zap.Option{zap.AddCaller()}
	if level == zapcore.DebugLevel {
		loggerOptions = append(loggerOptions, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	} else {
		loggerOptions = append(loggerOptions, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	logger := zap.New(zapcore.NewTee(cores...), loggerOptions...)

	logger.Debug("Zap logger constructed",
		zap.String("final_level", level.String()),
		zap.String("format", format),
		zap.Bool("file_logging_enabled", cfg.FileLoggingEnabled),
		zap.String("file_path", filepath.Join(cfg.Directory, cfg.Filename)),
	)

	return logger, nil
}

func parseLevel(levelStr string) (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(levelStr))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level '%s'", levelStr)
	}
	return level, nil
}

func buildEncoder(useConsoleStyle bool) zapcore.Encoder {
	if useConsoleStyle {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}
