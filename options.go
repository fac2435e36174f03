package odata

import (
	"net/http"
	"time"

	"github.com/gostratum/core/logx"
	"github.com/gostratum/odata/breaker"
)

// Option mutates the client configuration before a Client is constructed.
type Option func(*Config)

// WithBaseURL overrides the service root.
func WithBaseURL(u string) Option {
	return func(c *Config) {
		c.BaseURL = u
	}
}

// WithCredentials overrides the Basic-Auth username and password.
func WithCredentials(username, password string) Option {
	return func(c *Config) {
		c.Username = username
		c.Password = password
	}
}

// WithEndpoint sets the endpoint recorded in the configuration.
func WithEndpoint(endpoint string) Option {
	return func(c *Config) {
		c.Endpoint = endpoint
	}
}

// WithTimeout bounds every call. Zero disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithBreaker toggles the circuit breaker for outbound calls.
func WithBreaker(enabled bool) Option {
	return func(c *Config) {
		c.BreakerEnabled = enabled
	}
}

// WithBreakerManager injects a custom breaker manager implementation.
func WithBreakerManager(m breaker.Manager) Option {
	return func(c *Config) {
		c.Breaker = m
	}
}

// WithTransport injects a custom transport for the underlying http.Client.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Config) {
		c.Transport = rt
	}
}

// WithHTTPClient injects an http.Client instance. The Timeout and Transport
// settings from the Config are applied on top.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(l logx.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithMiddleware appends a custom middleware to the transport chain.
func WithMiddleware(m Middleware) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, m)
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}
