package services

import (
	"context"
	"time"

	"github.com/NomadCrew/nomad-crew-newsletter/logger"
	"github.com/NomadCrew/nomad-crew-newsletter/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DBPinger is satisfied by db.DatabaseClient and *pgxpool.Pool.
type DBPinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	db          DBPinger
	redisClient redis.Cmdable
	version     string
	startTime   time.Time
	log         *zap.SugaredLogger
}

// NewHealthService builds a health checker. redisClient may be nil when the
// rate limiter is disabled; Redis is then reported as not configured.
func NewHealthService(db DBPinger, redisClient redis.Cmdable, version string) *HealthService {
	return &HealthService{
		db:          db,
		redisClient: redisClient,
		version:     version,
		startTime:   time.Now(),
		log:         logger.GetLogger(),
	}
}

func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := map[string]types.HealthComponent{
		"database": h.checkDatabase(ctx),
		"redis":    h.checkRedis(ctx),
	}

	overall := types.HealthStatusUp
	if components["database"].Status == types.HealthStatusDown {
		overall = types.HealthStatusDown
	} else if components["redis"].Status == types.HealthStatusDown {
		// The rate limiter fails open, so a Redis outage only degrades service.
		overall = types.HealthStatusDegraded
	}

	return types.HealthCheck{
		Status:     overall,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
}

func (h *HealthService) checkDatabase(ctx context.Context) types.HealthComponent {
	if err := h.db.Ping(ctx); err != nil {
		h.log.Errorw("Database health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Database connection failed",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if h.redisClient == nil {
		return types.HealthComponent{Status: types.HealthStatusUp, Details: "Not configured"}
	}
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}
