package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, StorageMemory, cfg.StorageType)
	assert.False(t, cfg.OTelEnabled)
	assert.Equal(t, "tasklens", cfg.ServiceName)
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("TASKLENS_STORAGE_TYPE", StoragePostgres)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TASKLENS_POSTGRES_DSN")

	t.Setenv("TASKLENS_POSTGRES_DSN", "postgres://localhost:5432/tasklens")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.StorageType)
}

func TestLoad_UnknownStorageType(t *testing.T) {
	t.Setenv("TASKLENS_STORAGE_TYPE", "redis")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown TASKLENS_STORAGE_TYPE")
}
