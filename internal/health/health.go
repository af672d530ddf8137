package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/mindleaf/notification-scheduling/internal/domain"
)

const checkTimeout = 5 * time.Second

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

type CheckResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

type HealthStatus struct {
	Status  Status                 `json:"status"`
	Version string                 `json:"version,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// Checker verifies what the scheduler needs to serve traffic: the Redis message
// store and the notification sink that owns the scheduled set.
type Checker struct {
	redisClient *redis.Client
	sink        domain.NotificationSink
	version     string
}

func NewChecker(redisClient *redis.Client, sink domain.NotificationSink, version string) *Checker {
	return &Checker{
		redisClient: redisClient,
		sink:        sink,
		version:     version,
	}
}

func (c *Checker) Check(ctx context.Context) *HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	status := &HealthStatus{
		Status:  StatusHealthy,
		Version: c.version,
		Checks:  make(map[string]CheckResult),
	}

	if c.redisClient != nil {
		runCheck(checkCtx, status, "redis", func(ctx context.Context) error {
			return c.redisClient.Ping(ctx).Err()
		})
	}

	if c.sink != nil {
		runCheck(checkCtx, status, "notification_sink", func(ctx context.Context) error {
			_, err := c.sink.EnumeratePending(ctx)
			return err
		})
	}

	return status
}

func runCheck(ctx context.Context, status *HealthStatus, name string, check func(context.Context) error) {
	start := time.Now()
	if err := check(ctx); err != nil {
		status.Status = StatusUnhealthy
		status.Checks[name] = CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
		return
	}
	status.Checks[name] = CheckResult{
		Status:    StatusHealthy,
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

// LiveHandler reports liveness without touching dependencies.
func (c *Checker) LiveHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ReadyHandler reports readiness with per-dependency results.
func (c *Checker) ReadyHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := c.Check(ctx.Request.Context())

		httpStatus := http.StatusOK
		if status.Status != StatusHealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, status)
	}
}
