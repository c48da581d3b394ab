package logger

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string
	Environment string
	ServiceName string
}

// New builds a zap logger for the given configuration and installs it as
// the zap global so that code without an echo context can still log.
func New(config LogConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch config.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if config.Environment == "production" {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		// human-friendly output with colors
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	log, err := zc.Build(zap.Fields(
		zap.String("service", config.ServiceName),
		zap.String("environment", config.Environment),
	))
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}

// Middleware returns an Echo middleware that stores a request-scoped logger
// in the context and writes one access log line per request.  It must run
// after the request id middleware.
func Middleware(base *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			ctxLogger := base.With(zap.String("request_id", requestID))
			c.Set(contextKeyEcho, ctxLogger)
			c.SetRequest(c.Request().WithContext(WithContext(c.Request().Context(), ctxLogger)))

			err := next(c)
			if err != nil {
				// let the central error handler write the response so the
				// logged status matches what the client receives
				c.Error(err)
			}

			ctxLogger.Info("HTTP Request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.String("route", c.Path()),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			)
			return nil
		}
	}
}
