package memoboard

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config selects the backend and sets the coarse knobs. All fields map
// to MEMOBOARD_* environment variables via LoadConfig; zero values fall
// back to the defaults below.
type Config struct {
	// Backend picks the store implementation: remote, local or mock.
	Backend Backend `envconfig:"BACKEND" default:"remote"`

	// BaseURL is the remote API root, e.g. http://localhost:8080/api.
	// Required when Backend is remote.
	BaseURL string `envconfig:"BASE_URL"`

	// DataDir is where the local backend keeps its snapshot database.
	DataDir string `envconfig:"DATA_DIR" default:".memoboard"`

	// HTTPTimeout bounds a single remote request end to end.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	// MockLatency is the artificial delay the mock backend adds to every
	// operation.
	MockLatency time.Duration `envconfig:"MOCK_LATENCY" default:"300ms"`

	// AuthPolicy is "advisory" (default) or "enforced". Advisory lets
	// unauthenticated mutations through to the store; enforced rejects
	// them client-side.
	AuthPolicy string `envconfig:"AUTH_POLICY" default:"advisory"`

	// Debug turns on HTTP request/response dump logging.
	Debug bool `envconfig:"DEBUG"`
}

// LoadConfig reads Config from MEMOBOARD_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("memoboard", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// validate rejects combinations New cannot honor.
func (c Config) validate() error {
	switch c.Backend {
	case BackendRemote:
		if c.BaseURL == "" {
			return fmt.Errorf("base URL is required for the remote backend")
		}
	case BackendLocal, BackendMock:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch c.AuthPolicy {
	case "", "advisory", "enforced":
	default:
		return fmt.Errorf("unknown auth policy %q", c.AuthPolicy)
	}
	return nil
}

// gatePolicy maps the config string to the board's enforcement mode.
func (c Config) gatePolicy() GatePolicy {
	if c.AuthPolicy == "enforced" {
		return GateEnforced
	}
	return GateAdvisory
}
