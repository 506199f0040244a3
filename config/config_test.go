package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

// clearEnv makes sure none of our variables are set, and that whatever a test or a .env file
// sets is removed afterward.
func clearEnv(t *testing.T) {
	for _, name := range envVars {
		if old, ok := os.LookupEnv(name); ok {
			t.Cleanup(func() { _ = os.Setenv(name, old) })
		} else {
			t.Cleanup(func() { _ = os.Unsetenv(name) })
		}
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Config{
		URL:             DefaultURL,
		UserAgent:       DefaultUserAgent,
		RequestInterval: DefaultRequestInterval,
		StatusTimeout:   DefaultStatusTimeout,
	}, *cfg)
}

func TestConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "geocode-tests.yaml", `
url: http://localhost:8080/
userAgent: my-tests/2.0
requestInterval: 250ms
`)
	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/", cfg.URL)
	assert.Equal(t, "my-tests/2.0", cfg.UserAgent)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestInterval)
	assert.Equal(t, DefaultStatusTimeout, cfg.StatusTimeout)
}

func TestEnvironmentOverridesConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "geocode-tests.yaml", "url: http://localhost:8080/\nrequestInterval: 2s\n")
	require.NoError(t, os.Setenv("GEOCODE_TESTS_URL", "http://geocoder.internal/"))
	require.NoError(t, os.Setenv("GEOCODE_TESTS_STATUS_TIMEOUT", "1m"))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://geocoder.internal/", cfg.URL)
	assert.Equal(t, 2*time.Second, cfg.RequestInterval)
	assert.Equal(t, time.Minute, cfg.StatusTimeout)
}

func TestDotEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, ".env", "GEOCODE_TESTS_USER_AGENT=from-dotenv\nGEOCODE_TESTS_REQUEST_INTERVAL=0s\n")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.UserAgent)
	assert.Equal(t, time.Duration(0), cfg.RequestInterval)
}

func TestDotEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, ".env", "GEOCODE_TESTS_USER_AGENT=from-dotenv\n")
	require.NoError(t, os.Setenv("GEOCODE_TESTS_USER_AGENT", "from-env"))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.UserAgent)
}

func TestInvalidSettings(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	writeFile(t, dir, "geocode-tests.yaml", "requestInterval: soon\n")
	_, err := LoadFrom(dir)
	assert.Error(t, err)

	dir = t.TempDir()
	writeFile(t, dir, "geocode-tests.yaml", "requestInterval: -1s\n")
	_, err = LoadFrom(dir)
	assert.Error(t, err)

	dir = t.TempDir()
	writeFile(t, dir, "geocode-tests.yaml", "url: [\n")
	_, err = LoadFrom(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, (&Config{URL: DefaultURL}).Validate())
	assert.Error(t, (&Config{}).Validate())
	assert.Error(t, (&Config{URL: DefaultURL, StatusTimeout: -time.Second}).Validate())
}
