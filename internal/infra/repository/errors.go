package repository

import "errors"

var (
	ErrRedisConnection     = errors.New("redis connection error")
	ErrInvalidMessageData  = errors.New("invalid message data")
	ErrInvalidSettingsData = errors.New("invalid settings data")
)
