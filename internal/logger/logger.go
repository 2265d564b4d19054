// Package logger builds the zap logger shared by the server, services and CLI.
package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a JSON production logger when env is "production" and a console development
// logger otherwise. A non-empty level overrides the preset's default level.
func New(env, level string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if strings.EqualFold(env, "production") {
		cfg = zap.NewProductionConfig()
	}
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = lvl
	}
	return cfg.Build()
}

// Must is New for callers that cannot continue without a logger.
func Must(env, level string) *zap.Logger {
	log, err := New(env, level)
	if err != nil {
		log, _ = zap.NewDevelopment()
		log.Warn("invalid log level, using development defaults", zap.String("level", level), zap.Error(err))
	}
	return log
}
