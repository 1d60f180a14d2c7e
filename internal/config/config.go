package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config contains runtime configuration required by the relay.
type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Meta       Meta       `yaml:"meta"`
	Metrics    Metrics    `yaml:"metrics"`
	Tracing    Tracing    `yaml:"tracing"`
}

type HTTPServer struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"0s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Meta holds the Conversions API destination and the private credential.
// AccessToken and PixelID may be empty: the relay then rejects each POST instead of refusing to boot.
type Meta struct {
	AccessToken     string        `yaml:"access_token" env:"META_ACCESS_TOKEN"`
	PixelID         string        `yaml:"pixel_id" env:"META_PIXEL_ID"`
	GraphURL        string        `yaml:"graph_url" env:"META_GRAPH_URL" env-default:"https://graph.facebook.com"`
	APIVersion      string        `yaml:"api_version" env:"META_API_VERSION" env-default:"v20.0"`
	TestEventCode   string        `yaml:"test_event_code" env:"META_TEST_EVENT_CODE"`
	DefaultCurrency string        `yaml:"default_currency" env:"META_DEFAULT_CURRENCY"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout" env:"UPSTREAM_TIMEOUT" env-default:"0s"`
}

type Metrics struct {
	// APIKeysRaw format: "name1:key1,name2:key2". Empty leaves /metrics public.
	APIKeysRaw string            `yaml:"api_keys" env:"METRICS_API_KEYS"`
	APIKeys    map[string]string `yaml:"-"` // apiKey -> name
}

type Tracing struct {
	Endpoint    string `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"OTEL_SERVICE_NAME" env-default:"event-relay"`
}

// HasCredentials reports whether both the access token and the pixel id are set.
func (m Meta) HasCredentials() bool {
	return strings.TrimSpace(m.AccessToken) != "" && strings.TrimSpace(m.PixelID) != ""
}

// LogValue keeps the access token out of logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("env", c.Env),
		slog.String("address", c.HTTPServer.Address),
		slog.String("graph_url", c.Meta.GraphURL),
		slog.String("api_version", c.Meta.APIVersion),
		slog.Bool("credentials", c.Meta.HasCredentials()),
		slog.Bool("test_event_code", c.Meta.TestEventCode != ""),
		slog.Bool("metrics_auth", len(c.Metrics.APIKeys) > 0),
		slog.Bool("tracing", c.Tracing.Endpoint != ""),
	)
}

// Load reads the configuration from the environment, layered over the YAML file
// named by CONFIG_PATH when that variable is set.
func Load() (Config, error) {
	var cfg Config

	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	cfg.Meta.AccessToken = strings.TrimSpace(cfg.Meta.AccessToken)
	cfg.Meta.PixelID = strings.TrimSpace(cfg.Meta.PixelID)
	if cfg.Meta.PixelID != "" && !isDigits(cfg.Meta.PixelID) {
		return Config{}, errors.New("META_PIXEL_ID must be numeric")
	}
	cfg.Meta.GraphURL = strings.TrimRight(cfg.Meta.GraphURL, "/")

	keys, err := parseAPIKeys(cfg.Metrics.APIKeysRaw)
	if err != nil {
		return Config{}, err
	}
	cfg.Metrics.APIKeys = keys

	return cfg, nil
}

// MustLoad is Load for binaries that cannot start without a config.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}
	return cfg
}

func parseAPIKeys(raw string) (map[string]string, error) {
	keys := map[string]string{}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return keys, nil
	}

	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts := strings.SplitN(p, ":", 2)
		if len(parts) != 2 {
			return nil, errors.New(`METRICS_API_KEYS must be "name:key,name:key"`)
		}
		name := strings.TrimSpace(parts[0])
		key := strings.TrimSpace(parts[1])
		if name == "" || key == "" {
			return nil, errors.New(`METRICS_API_KEYS must be "name:key,name:key"`)
		}
		keys[key] = name
	}

	return keys, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
