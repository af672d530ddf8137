package config

import "errors"

var (
	ErrRedisAddrMissing = errors.New("SCHEDULING_REDIS_ADDR is required")
	ErrInvalidRedisURL  = errors.New("SCHEDULING_REDIS_URL must be a valid redis URL")
	ErrInvalidRedisDB   = errors.New("SCHEDULING_REDIS_DB must be a non-negative integer")
)
