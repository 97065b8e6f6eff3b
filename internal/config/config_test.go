package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Address())
	assert.Equal(t, 30*time.Second, cfg.SnapshotTTL)
	assert.Equal(t, 400*time.Millisecond, cfg.FastForwardDelay)
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "short")

	_, err := Load()
	assert.Error(t, err)
}
