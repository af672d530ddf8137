package config

import (
	"crypto/tls"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	redisURLEnv      = "SCHEDULING_REDIS_URL"
	redisAddrEnv     = "SCHEDULING_REDIS_ADDR"
	redisPasswordEnv = "SCHEDULING_REDIS_PASSWORD"
	redisDBEnv       = "SCHEDULING_REDIS_DB"
	redisTLSEnv      = "SCHEDULING_REDIS_TLS"

	defaultRedisAddr = "localhost:6379"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
}

// LoadRedisConfig reads the message store connection settings.
// SCHEDULING_REDIS_URL takes precedence; without it the discrete
// SCHEDULING_REDIS_* variables apply, defaulting to a local instance.
func LoadRedisConfig() (*RedisConfig, error) {
	if rawURL := os.Getenv(redisURLEnv); rawURL != "" {
		opts, err := redis.ParseURL(rawURL)
		if err != nil {
			return nil, ErrInvalidRedisURL
		}
		return &RedisConfig{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
			TLS:      opts.TLSConfig != nil,
		}, nil
	}

	addr := os.Getenv(redisAddrEnv)
	if addr == "" {
		addr = defaultRedisAddr
	}

	db := 0
	if raw := os.Getenv(redisDBEnv); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return nil, ErrInvalidRedisDB
		}
		db = parsed
	}

	return &RedisConfig{
		Addr:     addr,
		Password: os.Getenv(redisPasswordEnv),
		DB:       db,
		TLS:      os.Getenv(redisTLSEnv) == "true",
	}, nil
}

// Options converts the config into go-redis client options.
func (c *RedisConfig) Options() *redis.Options {
	opts := &redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	}
	if c.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

func (c *RedisConfig) Validate() error {
	if c == nil || c.Addr == "" {
		return ErrRedisAddrMissing
	}
	return nil
}
