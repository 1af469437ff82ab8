package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/grvup/classroom/config"
)

// Formats accepted in log.format
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// NewLogger builds the process logger. JSON output uses ISO-8601 timestamps
// and carries an "app" field so lines can be told apart from the admin CLI.
func NewLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	return build(cfg, "classroom")
}

// NewCLILogger the admin tool's logger: console only, no stack traces
func NewCLILogger(cfg *config.LogConfig) (*zap.Logger, error) {
	cli := *cfg
	cli.Format = FormatConsole
	l, err := build(&cli, "classroom-admin")
	if err != nil {
		return nil, err
	}
	return l.WithOptions(zap.AddStacktrace(zapcore.FatalLevel)), nil
}

func build(cfg *config.LogConfig, app string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case FormatConsole:
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case FormatJSON, "":
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.InitialFields = map[string]interface{}{"app": app}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
