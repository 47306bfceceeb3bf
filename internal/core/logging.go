package core

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logTimeLayout = "2006-01-02 15:04:05"

// NewLogger returns the logger shared by the server and its tools. Logs go
// to stdout unless a file path is configured, in which case color is
// dropped since nothing will render the escape codes.
func NewLogger(cfg *Config) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(cfg.Logging.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Logging.LogLevel, err)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(logTimeLayout)
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	logConfig := zap.NewDevelopmentConfig()
	logConfig.Level = zap.NewAtomicLevelAt(level)
	logConfig.DisableCaller = !cfg.Logging.IncludeCaller
	if cfg.Logging.LogFilePath != "" {
		logConfig.OutputPaths = []string{cfg.Logging.LogFilePath}
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	logConfig.EncoderConfig = encoderConfig

	logger, err := logConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return logger.Sugar(), nil
}
