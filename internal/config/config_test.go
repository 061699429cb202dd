package config_test

import (
	"testing"

	"github.com/splitbook/splitbook/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 10, cfg.MaxSessionsPerUser)
		assert.Equal(t, 20, cfg.MaxGoalsPerUser)
	})

	t.Run("missing JWT secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := config.Load()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("session cap must be positive", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("MAX_SESSIONS_PER_USER", "0")

		_, err := config.Load()
		assert.ErrorContains(t, err, "MAX_SESSIONS_PER_USER")
	})

	t.Run("negative session cap rejected", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("MAX_SESSIONS_PER_USER", "-3")

		_, err := config.Load()
		assert.ErrorContains(t, err, "MAX_SESSIONS_PER_USER")
	})
}
