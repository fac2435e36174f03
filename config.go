package odata

import (
	"net/http"
	"time"

	"github.com/gostratum/core/configx"
	"github.com/gostratum/core/logx"
	"github.com/gostratum/odata/breaker"
)

// Config describes the service endpoint and credentials. It is intended to be
// populated via configx and then optionally overridden via functional options
// when constructing a client instance.
type Config struct {
	BaseURL  string `mapstructure:"base_url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// Endpoint is the path fetched by the odatafetch command. The client
	// itself takes the endpoint per call.
	Endpoint string `mapstructure:"endpoint" default:"entity"`

	// Zero means no client-side deadline.
	Timeout time.Duration `mapstructure:"timeout"`

	BreakerEnabled bool `mapstructure:"breaker_enabled" default:"false"`

	// Runtime-only fields set via functional options (ignored by config loader).
	Transport   http.RoundTripper `mapstructure:"-"`
	Logger      logx.Logger       `mapstructure:"-"`
	Breaker     breaker.Manager   `mapstructure:"-"`
	Middlewares []Middleware      `mapstructure:"-"`
	HTTPClient  *http.Client      `mapstructure:"-"`
	UserAgent   string            `mapstructure:"-"`
}

// Prefix implements configx.Configurable.
func (Config) Prefix() string { return "odata" }

// NewConfig loads the client configuration using the provided config loader.
func NewConfig(loader configx.Loader) (Config, error) {
	var cfg Config
	return cfg, loader.Bind(&cfg)
}

func (c *Config) applyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "entity"
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
}
