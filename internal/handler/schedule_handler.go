package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mindleaf/notification-scheduling/internal/service/schedule"
)

type ScheduleHandler struct {
	scheduleService *schedule.Service
}

func NewScheduleHandler(scheduleService *schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
	}
}

// HandleReschedule regenerates the full notification schedule. The optional
// "at" query parameter substitutes a virtual reference time for batch
// testing.
func (h *ScheduleHandler) HandleReschedule(c *gin.Context) {
	ctx := c.Request.Context()

	var now time.Time
	if atStr := c.Query("at"); atStr != "" {
		parsed, err := time.Parse(time.RFC3339, atStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "invalid at time format, expected RFC3339")
			return
		}
		now = parsed
		slog.InfoContext(ctx, "using virtual time",
			slog.Time("virtual_now", now),
		)
	} else {
		now = time.Now()
	}

	result, err := h.scheduleService.Reschedule(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "reschedule failed",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}
