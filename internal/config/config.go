package config

import (
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Port      string
	BridgeURL string
	Redis     *RedisConfig
	Schedule  *ScheduleConfig
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:      port,
		BridgeURL: os.Getenv("NOTIFICATION_BRIDGE_URL"),
		Redis:     redisConfig,
		Schedule:  LoadScheduleConfig(),
	}, nil
}

// ParseLogLevel maps a LOG_LEVEL value to its slog level, defaulting to info.
// It is used during observability setup, which runs before Load so that
// config errors are already reported through the configured logger.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
