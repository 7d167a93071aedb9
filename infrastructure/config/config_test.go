package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"AZURE_OPENAI_ENDPOINT",
		"AZURE_OPENAI_API_KEY",
		"AZURE_OPENAI_DEPLOYMENT_NAME",
		"AZURE_OPENAI_API_VERSION",
		"DEMO_TARGETS",
		"DEMO_HEADLESS",
		"DEMO_SETTLE_DELAY",
		"DEMO_ROOT_URL",
		"DEMO_ENDPOINT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com/")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://example.openai.azure.com/", cfg.Endpoint)
	assert.Equal(t, "", cfg.APIKey)
	assert.False(t, cfg.UsesStaticKey())
	assert.Equal(t, DefaultDeploymentName, cfg.DeploymentName)
	assert.Equal(t, DefaultAPIVersion, cfg.APIVersion)
	assert.Equal(t, 4096, cfg.MaxTokens)
	assert.Equal(t, DefaultRootURL, cfg.RootURL)
	assert.Equal(t, []string{"Identity Scope", "Throttling"}, cfg.Targets)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 1280, cfg.ViewportWidth)
	assert.Equal(t, 720, cfg.ViewportHeight)
	assert.Equal(t, 2*time.Second, cfg.SettleDelay)
	assert.Equal(t, 30*time.Second, cfg.NavigationTimeout)
}

func TestLoad_MissingEndpoint(t *testing.T) {
	clearEnv(t)
	t.Setenv("AZURE_OPENAI_API_KEY", "secret")

	cfg, err := Load("")
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrMissingEndpoint)
}

func TestLoad_BlankEndpointIsMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("AZURE_OPENAI_ENDPOINT", "   ")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrMissingEndpoint)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com/")
	t.Setenv("AZURE_OPENAI_API_KEY", "secret")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-4o")
	t.Setenv("DEMO_TARGETS", "Pagination, Throttling")
	t.Setenv("DEMO_HEADLESS", "true")
	t.Setenv("DEMO_SETTLE_DELAY", "250ms")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.UsesStaticKey())
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "gpt-4o", cfg.DeploymentName)
	assert.Equal(t, []string{"Pagination", "Throttling"}, cfg.Targets)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 250*time.Millisecond, cfg.SettleDelay)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com/")

	path := filepath.Join(t.TempDir(), "demo.yaml")
	content := `root_url: http://localhost:8080/docs
targets:
  - Identity Scope
  - Long Running Operations
click_timeout: 3s
full_page: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/docs", cfg.RootURL)
	assert.Equal(t, []string{"Identity Scope", "Long Running Operations"}, cfg.Targets)
	assert.Equal(t, 3*time.Second, cfg.ClickTimeout)
	assert.True(t, cfg.FullPage)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com/")

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
