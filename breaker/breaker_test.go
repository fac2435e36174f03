package breaker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerTripsPerHost(t *testing.T) {
	m := NewManager(Config{ConsecutiveFailures: 2, OpenTimeout: time.Minute})
	boom := errors.New("dial failed")
	failing := func() (*http.Response, error) { return nil, boom }

	for i := 0; i < 2; i++ {
		_, err := m.Do("a.example.com", failing)
		assert.ErrorIs(t, err, boom)
	}

	_, err := m.Do("a.example.com", failing)
	assert.ErrorIs(t, err, ErrOpen)

	resp, err := m.Do("b.example.com", func() (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestManagerCountsResponsesAsSuccess(t *testing.T) {
	m := NewManager(Config{ConsecutiveFailures: 1})
	for i := 0; i < 3; i++ {
		resp, err := m.Do("a.example.com", func() (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusInternalServerError}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	}
}

func TestManagerBypassesEmptyHost(t *testing.T) {
	m := NewManager(Config{ConsecutiveFailures: 1})
	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		_, err := m.Do("", func() (*http.Response, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrOpen)
	}
}

func TestMiddlewareKeysByHost(t *testing.T) {
	var hosts []string
	m := managerFunc(func(host string, fn func() (*http.Response, error)) (*http.Response, error) {
		hosts = append(hosts, host)
		return fn()
	})
	next := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(""))}, nil
	})

	req, err := http.NewRequest(http.MethodGet, "https://sap.example.com/odata/entity", nil)
	require.NoError(t, err)
	_, err = NewMiddleware(m)(next).RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, []string{"sap.example.com"}, hosts)
}

type managerFunc func(host string, fn func() (*http.Response, error)) (*http.Response, error)

func (f managerFunc) Do(host string, fn func() (*http.Response, error)) (*http.Response, error) {
	return f(host, fn)
}

func TestManagerIgnoresCallerCancellation(t *testing.T) {
	m := NewManager(Config{ConsecutiveFailures: 2, OpenTimeout: time.Minute})
	cancelled := func() (*http.Response, error) {
		return nil, fmt.Errorf("round trip: %w", context.Canceled)
	}

	for i := 0; i < 5; i++ {
		_, err := m.Do("a.example.com", cancelled)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrOpen)
	}

	resp, err := m.Do("a.example.com", func() (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
