package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mindleaf/notification-scheduling/internal/domain"
	"github.com/mindleaf/notification-scheduling/internal/service/schedule"
)

// SettingsWriter is the settings persistence surface the HTTP layer needs.
type SettingsWriter interface {
	GetSettings(ctx context.Context) (*domain.Settings, error)
	SaveSettings(ctx context.Context, settings *domain.Settings) error
}

type SettingsHandler struct {
	settings        SettingsWriter
	scheduleService *schedule.Service
}

func NewSettingsHandler(settings SettingsWriter, scheduleService *schedule.Service) *SettingsHandler {
	return &SettingsHandler{
		settings:        settings,
		scheduleService: scheduleService,
	}
}

type settingsRequest struct {
	NotificationsEnabled bool `json:"notifications_enabled"`
	DailyFrequency       int  `json:"daily_frequency"`
	StartHour            int  `json:"start_hour"`
	EndHour              int  `json:"end_hour"`
	MinGapHours          int  `json:"min_gap_hours"`
}

func (h *SettingsHandler) HandleGetSettings(c *gin.Context) {
	ctx := c.Request.Context()

	settings, err := h.settings.GetSettings(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get settings",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to get settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) HandleUpdateSettings(c *gin.Context) {
	ctx := c.Request.Context()

	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	settings := &domain.Settings{
		NotificationsEnabled: req.NotificationsEnabled,
		DailyFrequency:       req.DailyFrequency,
		StartHour:            req.StartHour,
		EndHour:              req.EndHour,
		MinGapHours:          req.MinGapHours,
	}

	if err := settings.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.settings.SaveSettings(ctx, settings); err != nil {
		slog.ErrorContext(ctx, "failed to save settings",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to save settings")
		return
	}

	// Changed active hours or frequency invalidate the current schedule.
	if h.scheduleService != nil {
		if _, err := h.scheduleService.Reschedule(ctx, time.Now()); err != nil {
			slog.WarnContext(ctx, "reschedule after settings update failed",
				slog.String("error", err.Error()),
			)
		}
	}

	c.JSON(http.StatusOK, settings)
}
