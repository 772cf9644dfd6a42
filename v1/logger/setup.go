package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a wrapper around Uber's Zap logger.
//
// It satisfies the Logger interfaces declared by the pinecone and poller
// packages, so a single instance can be shared across the client.
type Logger struct {
	// Zap is the underlying zap.Logger instance. Most logging should go
	// through the wrapper methods.
	Zap *zap.Logger

	// tracingEnabled makes WithContext attach trace and span ids.
	tracingEnabled bool
}

// NewLoggerClient builds a JSON logger writing to stderr.
//
// The logger is configured with:
//   - ISO8601 timestamps under "timestamp"
//   - capital level names ("INFO", "ERROR")
//   - pid and service as initial fields
//   - caller information, skipping the wrapper frame
//
// Example:
//
//	log, err := logger.NewLoggerClient(logger.DefaultConfig().WithLevel(logger.Debug))
//	if err != nil {
//	    panic(err)
//	}
//	log.Info("client started", nil, nil)
func NewLoggerClient(cfg Config) (*Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.EncodeCaller = zapcore.ShortCallerEncoder
	encoderCfg.EncodeDuration = zapcore.MillisDurationEncoder

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel(cfg.Level)),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields: map[string]interface{}{
			"pid":     os.Getpid(),
			"service": cfg.ServiceName,
		},
	}

	zl, err := config.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("[Logger] failed to build zap logger: %w", err)
	}

	return &Logger{
		Zap:            zl,
		tracingEnabled: cfg.EnableTracing,
	}, nil
}

// zapLevel maps a configured level name; unknown names log at info.
func zapLevel(level string) zapcore.Level {
	switch level {
	case Debug:
		return zap.DebugLevel
	case Warning:
		return zap.WarnLevel
	case Error:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
