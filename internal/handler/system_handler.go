package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sgeduc/sge-backend/internal/config"
	"github.com/sgeduc/sge-backend/internal/response"
)

// SystemHandler exposes liveness and dependency health.
type SystemHandler struct {
	pool      *pgxpool.Pool
	rdb       *redis.Client
	startTime time.Time
	log       zerolog.Logger
}

func NewSystemHandler(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		pool:      pool,
		rdb:       rdb,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

// Health godoc
// GET /api/v1/health
// Pings both backing stores and reports queue depth so operators can spot a
// stuck worker before the dashboards go stale.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	dbOK := h.pool.Ping(ctx) == nil
	redisOK := h.rdb.Ping(ctx).Err() == nil

	var queueDepth int64
	if redisOK {
		queueDepth, _ = h.rdb.LLen(ctx, config.WorkerKey.StatsRefreshQueue).Result()
	}

	status := http.StatusOK
	if !dbOK || !redisOK {
		status = http.StatusServiceUnavailable
	}

	response.Success(c, status, gin.H{
		"database":          dbOK,
		"redis":             redisOK,
		"stats_queue_depth": queueDepth,
		"uptime_seconds":    int(time.Since(h.startTime).Seconds()),
		"go_version":        runtime.Version(),
		"goroutines":        runtime.NumGoroutine(),
	})
}
