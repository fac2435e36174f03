// Package breaker guards calls to a service host with a circuit breaker.
package breaker

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gostratum/core/logx"
	"github.com/sony/gobreaker"
)

// ErrOpen is returned while the breaker for a host rejects calls.
var ErrOpen = errors.New("circuit breaker open")

// Manager manages host-scoped circuit breakers.
type Manager interface {
	Do(host string, fn func() (*http.Response, error)) (*http.Response, error)
}

// Config controls breaker behaviour.
type Config struct {
	// ConsecutiveFailures trips the breaker. Defaults to 5.
	ConsecutiveFailures uint32
	Interval            time.Duration
	// OpenTimeout is how long the breaker stays open. Defaults to 30s.
	OpenTimeout time.Duration
	Logger      logx.Logger
}

// NewManager returns a breaker manager keyed by host.
func NewManager(cfg Config) Manager {
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logx.NewNoopLogger()
	}
	return &manager{config: cfg}
}

type manager struct {
	config   Config
	breakers sync.Map
}

func (m *manager) Do(host string, fn func() (*http.Response, error)) (*http.Response, error) {
	if host == "" {
		return fn()
	}

	result, err := m.get(host).Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, errors.Join(ErrOpen, err)
	}
	if err != nil {
		return nil, err
	}
	resp, _ := result.(*http.Response)
	return resp, nil
}

func (m *manager) get(host string) *gobreaker.CircuitBreaker {
	if cb, ok := m.breakers.Load(host); ok {
		return cb.(*gobreaker.CircuitBreaker)
	}

	threshold := m.config.ConsecutiveFailures
	logger := m.config.Logger
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        host,
		MaxRequests: 1,
		Interval:    m.config.Interval,
		Timeout:     m.config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Debug("odata breaker state change",
				logx.String("host", name),
				logx.String("from", from.String()),
				logx.String("to", to.String()),
			)
		},
	})
	actual, _ := m.breakers.LoadOrStore(host, cb)
	return actual.(*gobreaker.CircuitBreaker)
}

// isSuccessful does not hold a caller's cancellation against the host.
func isSuccessful(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// NewMiddleware wraps a transport with breaker protection. Only transport
// failures count against a host; any received response is a success.
func NewMiddleware(m Manager) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			host := ""
			if req.URL != nil {
				host = req.URL.Host
			}
			return m.Do(host, func() (*http.Response, error) {
				return next.RoundTrip(req)
			})
		})
	}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
