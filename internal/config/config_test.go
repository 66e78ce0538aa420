package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyrmgate/engine/internal/config"
	"github.com/wyrmgate/engine/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "campaigns", cfg.CampaignsDir)
	assert.Equal(t, "saves", cfg.SavesDir)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	raw := []byte("campaigns_dir: /srv/campaigns\nredis:\n  addr: redis:6380\n  db: 3\n")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/campaigns", cfg.CampaignsDir)
	assert.Equal(t, "saves", cfg.SavesDir)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ENGINE_SAVES_DIR", "/tmp/saves")
	t.Setenv("REDIS_DB", "9")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/saves", cfg.SavesDir)
	assert.Equal(t, 9, cfg.Redis.DB)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "campaigns", cfg.CampaignsDir)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

	_, err := config.Load(path)
	assert.True(t, errors.IsValidation(err))
}
