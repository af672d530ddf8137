package config

import (
	"os"
	"strconv"
	"time"
)

const (
	nagHorizonHoursEnv     = "NAG_HORIZON_HOURS"
	sampleMaxAttemptsEnv   = "SAMPLE_MAX_ATTEMPTS"
	notificationTitleEnv   = "NOTIFICATION_TITLE"
	notificationChannelEnv = "NOTIFICATION_CHANNEL"

	defaultNagHorizonHours     = 24
	defaultSampleMaxAttempts   = 50
	defaultNotificationTitle   = "Mindleaf"
	defaultNotificationChannel = "reminders"
)

type ScheduleConfig struct {
	NagHorizon        time.Duration
	SampleMaxAttempts int
	Title             string
	Channel           string
}

func LoadScheduleConfig() *ScheduleConfig {
	horizonHours := defaultNagHorizonHours
	if v := os.Getenv(nagHorizonHoursEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			horizonHours = parsed
		}
	}

	maxAttempts := defaultSampleMaxAttempts
	if v := os.Getenv(sampleMaxAttemptsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxAttempts = parsed
		}
	}

	title := os.Getenv(notificationTitleEnv)
	if title == "" {
		title = defaultNotificationTitle
	}

	channel := os.Getenv(notificationChannelEnv)
	if channel == "" {
		channel = defaultNotificationChannel
	}

	return &ScheduleConfig{
		NagHorizon:        time.Duration(horizonHours) * time.Hour,
		SampleMaxAttempts: maxAttempts,
		Title:             title,
		Channel:           channel,
	}
}
