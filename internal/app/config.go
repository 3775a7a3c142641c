package app

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/shhac/probe/internal/domain"
	"github.com/shhac/probe/internal/ui"
)

// Defaults used when neither the environment nor flags say otherwise.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTheme   = ui.ThemeSystem
	DefaultEnvFile = ".env"
)

// Config holds application-wide configuration.
type Config struct {
	// Debug enables debug logging and additional diagnostics
	Debug bool

	// BaseURL is the origin of the API under test
	BaseURL string

	// Endpoints are the paths offered in the endpoint selector, in order
	Endpoints []string

	// Samples are the file names served under /static/samples
	Samples []string

	// Timeout bounds each request; zero leaves it to the transport
	Timeout time.Duration

	// GRPCHealth, when set, is the address of a grpc.health.v1 server
	// used for the health check instead of GET /health
	GRPCHealth        string
	GRPCHealthTLS     bool
	GRPCHealthService string

	// Theme is "system", "light" or "dark"
	Theme string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		Endpoints: append([]string(nil), domain.DefaultEndpoints...),
		Samples:   append([]string(nil), domain.DefaultSamples...),
		Theme:     DefaultTheme,
	}
}

// LoadEnvFile loads variables from a dotenv file into the process
// environment. Variables already set are left alone. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ConfigFromEnv creates a configuration from PROBE_* environment variables.
// Unparseable values are ignored in favour of the defaults.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()

	if debugStr := os.Getenv("PROBE_DEBUG"); debugStr != "" {
		if debug, err := strconv.ParseBool(debugStr); err == nil {
			cfg.Debug = debug
		}
	}

	if baseURL := os.Getenv("PROBE_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	if endpoints := splitList(os.Getenv("PROBE_ENDPOINTS")); len(endpoints) > 0 {
		cfg.Endpoints = endpoints
	}

	if samples := splitList(os.Getenv("PROBE_SAMPLES")); len(samples) > 0 {
		cfg.Samples = samples
	}

	if timeoutStr := os.Getenv("PROBE_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil {
			cfg.Timeout = timeout
		}
	}

	cfg.GRPCHealth = os.Getenv("PROBE_GRPC_HEALTH")
	cfg.GRPCHealthService = os.Getenv("PROBE_GRPC_HEALTH_SERVICE")
	if tlsStr := os.Getenv("PROBE_GRPC_HEALTH_TLS"); tlsStr != "" {
		if useTLS, err := strconv.ParseBool(tlsStr); err == nil {
			cfg.GRPCHealthTLS = useTLS
		}
	}

	if theme := os.Getenv("PROBE_THEME"); theme != "" {
		cfg.Theme = strings.ToLower(theme)
	}

	return cfg
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL %q: scheme must be http or https", c.BaseURL)
	}
	if len(c.Endpoints) == 0 {
		return errors.New("no endpoints configured")
	}
	for _, e := range c.Endpoints {
		if !strings.HasPrefix(e, "/") {
			return fmt.Errorf("endpoint %q must start with /", e)
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if !ui.ValidTheme(c.Theme) {
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	return nil
}

// splitList parses a comma separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
