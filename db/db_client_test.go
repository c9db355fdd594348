package db

import (
	"context"
	"testing"
	"time"

	"github.com/NomadCrew/nomad-crew-newsletter/config"
	"github.com/NomadCrew/nomad-crew-newsletter/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func unreachableConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Host:             "127.0.0.1",
		Port:             1,
		User:             "postgres",
		Password:         "password",
		Name:             "newsletter",
		SSLMode:          "disable",
		MaxConnections:   4,
		AcquireTimeoutMS: 200,
	}
}

func TestNewDatabaseClient_IsLazy(t *testing.T) {
	client, err := NewDatabaseClient(unreachableConfig())
	require.NoError(t, err)
	defer client.Close()

	require.NotNil(t, client.GetPool())
	assert.EqualValues(t, 4, client.GetPool().Config().MaxConns)
	assert.Equal(t, 200*time.Millisecond, client.acquireTimeout)
}

func TestNewDatabaseClient_InvalidConfig(t *testing.T) {
	cfg := unreachableConfig()
	cfg.SSLMode = "bogus"

	_, err := NewDatabaseClient(cfg)
	assert.Error(t, err)
}

func TestDatabaseClient_PingBoundedByAcquireTimeout(t *testing.T) {
	client, err := NewDatabaseClient(unreachableConfig())
	require.NoError(t, err)
	defer client.Close()

	start := time.Now()
	err = client.Ping(context.Background())
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDatabaseClient_PingHonoursCallerContext(t *testing.T) {
	client, err := NewDatabaseClient(unreachableConfig())
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, client.Ping(ctx))
}
