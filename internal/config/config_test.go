package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeCreatesDefaults(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, InitializeAt(dir))

	_, err := os.Stat(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", AppConfig.APIBaseURL)
	assert.Equal(t, 60*time.Second, AppConfig.RequestTimeout)
	assert.Equal(t, "info", AppConfig.LogLevel)
	assert.Equal(t, dir, AppConfig.DataDir)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JOBDASH_API_BASE_URL", "https://api.example.com/")
	t.Setenv("JOBDASH_REQUEST_TIMEOUT", "5s")

	require.NoError(t, InitializeAt(dir))

	assert.Equal(t, "https://api.example.com", AppConfig.APIBaseURL)
	assert.Equal(t, 5*time.Second, AppConfig.RequestTimeout)
}

func TestSetPersists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InitializeAt(dir))

	require.NoError(t, Set("log_level", "debug"))
	require.NoError(t, InitializeAt(dir))
	assert.Equal(t, "debug", AppConfig.LogLevel)
}

func TestSetRejectsBadInput(t *testing.T) {
	require.NoError(t, InitializeAt(t.TempDir()))

	assert.Error(t, Set("openai_key", "sk"))
	assert.Error(t, Set("request_timeout", "soon"))
}
