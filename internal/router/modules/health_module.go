package modules

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-task-manager/pkg/response"
)

// HealthModule reports whether the backing services answer.
// Public: GET /api/health
type HealthModule struct {
	DB    *sql.DB
	Redis *redis.Client
}

// NewHealthModule accepts nil for services that are not configured.
func NewHealthModule(db *sql.DB, rdb *redis.Client) *HealthModule {
	return &HealthModule{DB: db, Redis: rdb}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.check)
}

func (m *HealthModule) check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	healthy := true
	if m.DB != nil {
		status["postgres"] = "ok"
		if err := m.DB.PingContext(ctx); err != nil {
			status["postgres"] = "unavailable"
			healthy = false
		}
	}
	if m.Redis != nil {
		// the cache is optional, so a redis outage degrades but does not fail
		status["redis"] = "ok"
		if err := m.Redis.Ping(ctx).Err(); err != nil {
			status["redis"] = "unavailable"
		}
	}

	if !healthy {
		response.Error[any](c, http.StatusServiceUnavailable, "unhealthy", status)
		return
	}
	response.Success(c, http.StatusOK, status, "healthy", nil)
}
