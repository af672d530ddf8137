package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mindleaf/notification-scheduling/internal/domain"
)

const (
	messageKeyPrefix = "scheduling:message:"
	messageIndexKey  = "scheduling:message-ids"
	settingsKey      = "scheduling:settings"
)

type messageRecord struct {
	ID                 string     `json:"id"`
	Text               string     `json:"text"`
	Weight             int        `json:"weight"`
	IsNagMe            bool       `json:"is_nag_me"`
	NagIntervalMinutes int        `json:"nag_interval_minutes"`
	CreatedAt          time.Time  `json:"created_at"`
	LastShown          *time.Time `json:"last_shown,omitempty"`
}

type settingsRecord struct {
	NotificationsEnabled bool `json:"notifications_enabled"`
	DailyFrequency       int  `json:"daily_frequency"`
	StartHour            int  `json:"start_hour"`
	EndHour              int  `json:"end_hour"`
	MinGapHours          int  `json:"min_gap_hours"`
}

// MessageRepository persists messages and settings in Redis. It implements
// both domain.MessageStore and domain.SettingsStore, plus the write
// operations used by the HTTP handlers.
type MessageRepository struct {
	client *redis.Client
}

func NewMessageRepository(client *redis.Client) *MessageRepository {
	return &MessageRepository{
		client: client,
	}
}

func (r *MessageRepository) SaveMessage(ctx context.Context, message *domain.Message) error {
	if message == nil {
		return ErrInvalidMessageData
	}

	data, err := json.Marshal(toMessageRecord(message))
	if err != nil {
		return ErrInvalidMessageData
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, messageKeyPrefix+message.ID, data, 0)
	pipe.SAdd(ctx, messageIndexKey, message.ID)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *MessageRepository) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	data, err := r.client.Get(ctx, messageKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, err
	}

	var record messageRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidMessageData
	}

	return fromMessageRecord(record), nil
}

func (r *MessageRepository) ListMessages(ctx context.Context) ([]domain.Message, error) {
	ids, err := r.client.SMembers(ctx, messageIndexKey).Result()
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(ids))
	for _, id := range ids {
		message, err := r.GetMessage(ctx, id)
		if err != nil {
			// An index entry without a record means the message was
			// deleted mid-listing.
			if errors.Is(err, domain.ErrMessageNotFound) {
				continue
			}
			return nil, err
		}
		messages = append(messages, *message)
	}

	return messages, nil
}

func (r *MessageRepository) DeleteMessage(ctx context.Context, id string) error {
	exists, err := r.client.Exists(ctx, messageKeyPrefix+id).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return domain.ErrMessageNotFound
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, messageKeyPrefix+id)
	pipe.SRem(ctx, messageIndexKey, id)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *MessageRepository) UpdateLastShown(ctx context.Context, id string, shownAt time.Time) (*domain.Message, error) {
	message, err := r.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}

	message.LastShown = &shownAt
	if err := r.SaveMessage(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

// GetSettings returns the stored settings, or the defaults when nothing has
// been saved yet.
func (r *MessageRepository) GetSettings(ctx context.Context) (*domain.Settings, error) {
	data, err := r.client.Get(ctx, settingsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.DefaultSettings(), nil
		}
		return nil, err
	}

	var record settingsRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidSettingsData
	}

	return &domain.Settings{
		NotificationsEnabled: record.NotificationsEnabled,
		DailyFrequency:       record.DailyFrequency,
		StartHour:            record.StartHour,
		EndHour:              record.EndHour,
		MinGapHours:          record.MinGapHours,
	}, nil
}

func (r *MessageRepository) SaveSettings(ctx context.Context, settings *domain.Settings) error {
	if settings == nil {
		return ErrInvalidSettingsData
	}

	record := settingsRecord{
		NotificationsEnabled: settings.NotificationsEnabled,
		DailyFrequency:       settings.DailyFrequency,
		StartHour:            settings.StartHour,
		EndHour:              settings.EndHour,
		MinGapHours:          settings.MinGapHours,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return ErrInvalidSettingsData
	}

	return r.client.Set(ctx, settingsKey, data, 0).Err()
}

func toMessageRecord(message *domain.Message) messageRecord {
	return messageRecord{
		ID:                 message.ID,
		Text:               message.Text,
		Weight:             message.Weight,
		IsNagMe:            message.IsNagMe,
		NagIntervalMinutes: message.NagIntervalMinutes,
		CreatedAt:          message.CreatedAt,
		LastShown:          message.LastShown,
	}
}

func fromMessageRecord(record messageRecord) *domain.Message {
	return &domain.Message{
		ID:                 record.ID,
		Text:               record.Text,
		Weight:             record.Weight,
		IsNagMe:            record.IsNagMe,
		NagIntervalMinutes: record.NagIntervalMinutes,
		CreatedAt:          record.CreatedAt,
		LastShown:          record.LastShown,
	}
}
