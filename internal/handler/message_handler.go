package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindleaf/notification-scheduling/internal/domain"
	"github.com/mindleaf/notification-scheduling/internal/service/schedule"
)

// MessageWriter is the message persistence surface the HTTP layer needs.
type MessageWriter interface {
	SaveMessage(ctx context.Context, message *domain.Message) error
	GetMessage(ctx context.Context, id string) (*domain.Message, error)
	ListMessages(ctx context.Context) ([]domain.Message, error)
	DeleteMessage(ctx context.Context, id string) error
}

type MessageHandler struct {
	messages        MessageWriter
	scheduleService *schedule.Service
}

func NewMessageHandler(messages MessageWriter, scheduleService *schedule.Service) *MessageHandler {
	return &MessageHandler{
		messages:        messages,
		scheduleService: scheduleService,
	}
}

type messageRequest struct {
	Text               string `json:"text"`
	Weight             int    `json:"weight"`
	IsNagMe            bool   `json:"is_nag_me"`
	NagIntervalMinutes int    `json:"nag_interval_minutes"`
}

func (h *MessageHandler) HandleCreateMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if req.Weight == 0 {
		req.Weight = domain.WeightDefault
	}

	message := domain.NewMessage(uuid.NewString(), req.Text, req.Weight, time.Now())
	message.IsNagMe = req.IsNagMe
	message.NagIntervalMinutes = req.NagIntervalMinutes

	if err := message.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.messages.SaveMessage(ctx, message); err != nil {
		slog.ErrorContext(ctx, "failed to save message",
			slog.String("message_id", message.ID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to save message")
		return
	}

	h.reschedule(c)
	c.JSON(http.StatusCreated, message)
}

func (h *MessageHandler) HandleListMessages(c *gin.Context) {
	ctx := c.Request.Context()

	messages, err := h.messages.ListMessages(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list messages",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to list messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *MessageHandler) HandleGetMessage(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	message, err := h.messages.GetMessage(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "message not found")
			return
		}
		slog.ErrorContext(ctx, "failed to get message",
			slog.String("message_id", id),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to get message")
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) HandleUpdateMessage(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	message, err := h.messages.GetMessage(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "message not found")
			return
		}
		slog.ErrorContext(ctx, "failed to get message",
			slog.String("message_id", id),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to get message")
		return
	}

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if req.Weight == 0 {
		req.Weight = domain.WeightDefault
	}

	message.Text = req.Text
	message.Weight = req.Weight
	message.IsNagMe = req.IsNagMe
	message.NagIntervalMinutes = req.NagIntervalMinutes

	if err := message.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.messages.SaveMessage(ctx, message); err != nil {
		slog.ErrorContext(ctx, "failed to save message",
			slog.String("message_id", message.ID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to save message")
		return
	}

	h.reschedule(c)
	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) HandleDeleteMessage(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.messages.DeleteMessage(ctx, id); err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "message not found")
			return
		}
		slog.ErrorContext(ctx, "failed to delete message",
			slog.String("message_id", id),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to delete message")
		return
	}

	h.reschedule(c)
	c.Status(http.StatusNoContent)
}

// reschedule regenerates the notification set after a mutation. Failures are
// logged, not surfaced: the next mutation or explicit refresh repairs the
// schedule.
func (h *MessageHandler) reschedule(c *gin.Context) {
	if h.scheduleService == nil {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.scheduleService.Reschedule(ctx, time.Now()); err != nil {
		slog.WarnContext(ctx, "reschedule after message mutation failed",
			slog.String("error", err.Error()),
		)
	}
}
