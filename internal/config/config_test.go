package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"BOOTDEP_DEBUG", "BOOTDEP_TIMING", "BOOTDEP_MANIFEST", "BOOTDEP_GREETING"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.Timing)
	assert.Equal(t, "", cfg.Manifest)
	assert.Equal(t, DefaultGreeting, cfg.Greeting)
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)
	file := filepath.Join(t.TempDir(), ".env")
	content := "BOOTDEP_DEBUG=true\nBOOTDEP_TIMING=1\nBOOTDEP_MANIFEST=deploy/bootdep.yaml\nBOOTDEP_GREETING=\"Bonjour\"\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	cfg := Load(file)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.Timing)
	assert.Equal(t, "deploy/bootdep.yaml", cfg.Manifest)
	assert.Equal(t, "Bonjour", cfg.Greeting)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	clearEnv(t)
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("BOOTDEP_GREETING=from file\n"), 0o644))
	t.Setenv("BOOTDEP_GREETING", "from env")
	t.Setenv("BOOTDEP_DEBUG", "not-a-bool")

	cfg := Load(file)
	assert.Equal(t, "from env", cfg.Greeting)
	assert.False(t, cfg.Debug)
}
