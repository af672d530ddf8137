package logging

import (
	"log/slog"
	"os"
)

// Module tags log records with the originating component.
type Module string

// Environment selects log output shape: text for development, JSON otherwise.
type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// ServiceInfo identifies the running service in every log record.
type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

// NewLogger builds the process logger with service attributes attached.
func NewLogger(info ServiceInfo, env Environment, level slog.Level, module Module) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if env == EnvDev {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	attrs := []slog.Attr{
		slog.String("service", info.Name),
		slog.String("version", info.Version),
		slog.String("module", string(module)),
	}
	if info.Revision != "" {
		attrs = append(attrs, slog.String("revision", info.Revision))
	}

	return slog.New(handler.WithAttrs(attrs))
}
