package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "127.0.0.1:37780", cfg.ListenAddr())
	assert.Equal(t, 40, cfg.Match.MinScore)
	assert.Equal(t, 8, cfg.Match.MaxResults)
	assert.Equal(t, 70, cfg.Match.BrowseScore)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bangapda.toml")
	body := `
[server]
port = 9000

[match]
min_score = 55
max_results = 3

[auth]
token_ttl = "1h"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Bind)
	assert.Equal(t, 55, cfg.Match.MinScore)
	assert.Equal(t, 3, cfg.Match.MaxResults)
	assert.Equal(t, 70, cfg.Match.BrowseScore)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BANGAPDA_SERVER_PORT", "4444")
	t.Setenv("BANGAPDA_MATCH_MIN_SCORE", "10")
	t.Setenv("BANGAPDA_SERVER_WEB_DIR", "/srv/bangapda/web")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, 4444, cfg.Server.Port)
	assert.Equal(t, "/srv/bangapda/web", cfg.Server.WebDir)
	assert.Equal(t, 10, cfg.Match.MinScore)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
