package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Cities-App/internal/config"
)

func TestOpenSQLite(t *testing.T) {
	client, err := OpenSQLite("file:database_test?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, "sqlite", client.Dialect())
	assert.NoError(t, client.HealthCheck(context.Background()))
}

func TestHealthCheckWithoutConnection(t *testing.T) {
	client := &Client{}
	assert.Error(t, client.HealthCheck(context.Background()))
	assert.NoError(t, client.Close())
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	cfg := &config.Config{
		DatabaseURL:   "host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1",
		ConnRetries:   5,
		RetryInterval: time.Minute,
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPostgreSQLClientWithRetry(ctx, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewSupabaseClientRequiresCredentials(t *testing.T) {
	_, err := NewSupabaseClient(&config.Config{})
	assert.True(t, errors.Is(err, config.ErrMissingSupabase))
}
