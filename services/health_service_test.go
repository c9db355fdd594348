package services

import (
	"context"
	"errors"
	"testing"

	"github.com/NomadCrew/nomad-crew-newsletter/logger"
	"github.com/NomadCrew/nomad-crew-newsletter/types"
	"github.com/go-redis/redismock/v9"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func TestHealthService_CheckHealth(t *testing.T) {
	tests := []struct {
		name          string
		dbErr         error
		redisErr      error
		noRedis       bool
		wantOverall   types.HealthStatus
		wantDatabase  types.HealthStatus
		wantRedis     types.HealthStatus
		wantRedisNote string
	}{
		{
			name:         "all healthy",
			wantOverall:  types.HealthStatusUp,
			wantDatabase: types.HealthStatusUp,
			wantRedis:    types.HealthStatusUp,
		},
		{
			name:         "database down",
			dbErr:        errors.New("connection refused"),
			wantOverall:  types.HealthStatusDown,
			wantDatabase: types.HealthStatusDown,
			wantRedis:    types.HealthStatusUp,
		},
		{
			name:         "redis down degrades",
			redisErr:     errors.New("i/o timeout"),
			wantOverall:  types.HealthStatusDegraded,
			wantDatabase: types.HealthStatusUp,
			wantRedis:    types.HealthStatusDown,
		},
		{
			name:          "redis disabled",
			noRedis:       true,
			wantOverall:   types.HealthStatusUp,
			wantDatabase:  types.HealthStatusUp,
			wantRedis:     types.HealthStatusUp,
			wantRedisNote: "Not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer mockDB.Close()
			mockDB.ExpectPing().WillReturnError(tt.dbErr)

			var service *HealthService
			if tt.noRedis {
				service = NewHealthService(mockDB, nil, "1.0.0")
			} else {
				redisClient, redisMock := redismock.NewClientMock()
				if tt.redisErr != nil {
					redisMock.ExpectPing().SetErr(tt.redisErr)
				} else {
					redisMock.ExpectPing().SetVal("PONG")
				}
				service = NewHealthService(mockDB, redisClient, "1.0.0")
				defer func() { assert.NoError(t, redisMock.ExpectationsWereMet()) }()
			}

			health := service.CheckHealth(context.Background())

			assert.Equal(t, tt.wantOverall, health.Status)
			assert.Equal(t, tt.wantDatabase, health.Components["database"].Status)
			assert.Equal(t, tt.wantRedis, health.Components["redis"].Status)
			assert.Equal(t, tt.wantRedisNote, health.Components["redis"].Details)
			assert.Equal(t, "1.0.0", health.Version)
			assert.NotEmpty(t, health.Timestamp)
			assert.NoError(t, mockDB.ExpectationsWereMet())
		})
	}
}
