package logger

import (
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const RequestIDHeader = "X-Request-ID"

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string
	Environment string
	ServiceName string
}

var log = zap.NewNop()

// InitLogger initializes the logger with configuration
func InitLogger(config *LogConfig) error {
	level := parseLevel(config.Level)

	var (
		built *zap.Logger
		err   error
	)
	if config.Environment == "production" {
		prodConfig := zap.NewProductionConfig()
		prodConfig.Level = zap.NewAtomicLevelAt(level)
		prodConfig.EncoderConfig.TimeKey = "timestamp"
		prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		built, err = prodConfig.Build(zap.Fields(
			zap.String("service", config.ServiceName),
			zap.String("environment", config.Environment),
		))
	} else {
		devConfig := zap.NewDevelopmentConfig()
		devConfig.Level = zap.NewAtomicLevelAt(level)
		devConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

		built, err = devConfig.Build(zap.Fields(
			zap.String("service", config.ServiceName),
			zap.String("environment", config.Environment),
		))
	}
	if err != nil {
		return err
	}

	log = built
	zap.ReplaceGlobals(log)
	return nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	return log
}

// Middleware tags every request with a request id and logs it once the handler chain returns.
func Middleware() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		start := time.Now()

		requestID := e.Request.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		e.Response.Header().Set(RequestIDHeader, requestID)

		ctxLogger := log.With(zap.String("request_id", requestID))
		e.Request = e.Request.WithContext(WithContext(e.Request.Context(), ctxLogger))

		err := e.Next()

		fields := []zap.Field{
			zap.String("method", e.Request.Method),
			zap.String("path", e.Request.URL.Path),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			ctxLogger.Warn("HTTP Request", append(fields, zap.Error(err))...)
			return err
		}
		ctxLogger.Info("HTTP Request", fields...)
		return nil
	}
}
