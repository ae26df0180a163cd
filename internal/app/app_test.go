package app

import (
	"context"
	"os"
	"path/filepath"
	"smartdash/internal/catalog"
	"smartdash/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.SimulatedDelay = 0
	return cfg
}

func TestBuildPersistsSettings(t *testing.T) {
	cfg := testConfig(t)

	a, err := Build(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, a.DBErr)

	ctx := context.Background()
	cur := a.Settings.Load(ctx)
	_, err = a.Settings.Set(ctx, cur, "tone", "friendly")
	require.NoError(t, err)
	a.Close()

	again, err := Build(cfg, nil)
	require.NoError(t, err)
	defer again.Close()
	assert.Equal(t, "friendly", again.Settings.Load(ctx).Tone)
}

func TestBuildToleratesBrokenDatabase(t *testing.T) {
	cfg := testConfig(t)
	// a regular file where the data directory should be
	blocker := filepath.Join(cfg.DataDir, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	cfg.DataDir = blocker

	a, err := Build(cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Error(t, a.DBErr)
	assert.Nil(t, a.DB)
	assert.Equal(t, "professional", a.Settings.Load(context.Background()).Tone)
}

func TestNewSessionUsesResolver(t *testing.T) {
	a, err := Build(testConfig(t), nil)
	require.NoError(t, err)
	defer a.Close()

	tool, ok := catalog.Lookup("email")
	require.True(t, ok)

	s := a.NewSession()
	s.SelectTool(tool)
	msg, err := s.Submit(context.Background(), "invite the team", a.Settings.Load(context.Background()))
	require.NoError(t, err)
	assert.Contains(t, msg.Content, "**Subject:** Regarding Your Request: invite the team...")
}
