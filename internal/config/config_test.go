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
	for _, k := range []string{
		"CONFIG_PATH", "ENV", "HTTP_ADDRESS", "HTTP_WRITE_TIMEOUT", "META_ACCESS_TOKEN", "META_PIXEL_ID",
		"META_GRAPH_URL", "META_API_VERSION", "META_TEST_EVENT_CODE", "META_DEFAULT_CURRENCY",
		"UPSTREAM_TIMEOUT", "METRICS_API_KEYS", "OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPServer.Address)
	// Unbounded so a slow upstream reply still reaches the caller.
	assert.Zero(t, cfg.HTTPServer.WriteTimeout)
	assert.Equal(t, "https://graph.facebook.com", cfg.Meta.GraphURL)
	assert.Equal(t, "v20.0", cfg.Meta.APIVersion)
	assert.Zero(t, cfg.Meta.UpstreamTimeout)
	assert.False(t, cfg.Meta.HasCredentials())
	assert.Empty(t, cfg.Metrics.APIKeys)
}

func TestLoad_Credentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("META_ACCESS_TOKEN", "  secret-token ")
	t.Setenv("META_PIXEL_ID", "1234567890")
	t.Setenv("META_GRAPH_URL", "http://localhost:9999/")
	t.Setenv("META_TEST_EVENT_CODE", "TEST70646")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Meta.HasCredentials())
	assert.Equal(t, "secret-token", cfg.Meta.AccessToken)
	assert.Equal(t, "http://localhost:9999", cfg.Meta.GraphURL)
	assert.Equal(t, "TEST70646", cfg.Meta.TestEventCode)
}

func TestLoad_RejectsNonNumericPixelID(t *testing.T) {
	clearEnv(t)
	t.Setenv("META_PIXEL_ID", "YOUR_PIXEL_ID_HERE")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_MetricsAPIKeys(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    map[string]string
		wantErr bool
	}{
		{name: "single", raw: "ops:k1", want: map[string]string{"k1": "ops"}},
		{name: "spaces and blanks", raw: " ops:k1 , ,grafana:k2", want: map[string]string{"k1": "ops", "k2": "grafana"}},
		{name: "missing key", raw: "ops:", wantErr: true},
		{name: "no separator", raw: "opsk1", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("METRICS_API_KEYS", tc.raw)

			cfg, err := Load()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.Metrics.APIKeys)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: prod
http_server:
  address: ":9090"
meta:
  pixel_id: "42"
  access_token: "file-token"
  default_currency: "UYU"
`), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, ":9090", cfg.HTTPServer.Address)
	assert.Equal(t, "42", cfg.Meta.PixelID)
	assert.Equal(t, "UYU", cfg.Meta.DefaultCurrency)
	assert.True(t, cfg.Meta.HasCredentials())
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestConfig_LogValueHidesToken(t *testing.T) {
	cfg := Config{Meta: Meta{AccessToken: "super-secret", PixelID: "1"}}
	assert.NotContains(t, cfg.LogValue().String(), "super-secret")
}
