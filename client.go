package odata

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gostratum/core/logx"
	"github.com/gostratum/odata/auth"
	"github.com/gostratum/odata/breaker"
)

// Client represents the public contract for the service client.
type Client interface {
	// GetData fetches base_url/endpoint and parses the body as a JSON object.
	GetData(ctx context.Context, endpoint string) (Object, error)
	CreateData(ctx context.Context, endpoint string, body any) (Object, error)
	UpdateData(ctx context.Context, endpoint string, body any) (Object, error)
	// DeleteData returns a nil Object when the response body is empty.
	DeleteData(ctx context.Context, endpoint string) (Object, error)

	BaseURL() string
	Headers() http.Header
}

const defaultUserAgent = "odata/0"

type client struct {
	cfg        Config
	headers    http.Header
	httpClient *http.Client
	base       http.RoundTripper
	logger     logx.Logger
}

// New constructs a Client for baseURL authenticating with HTTP Basic
// credentials. The base URL is not validated and no network I/O happens here.
func New(baseURL, username, password string, opts ...Option) (Client, error) {
	return NewWithConfig(Config{
		BaseURL:  baseURL,
		Username: username,
		Password: password,
	}, opts...)
}

// NewWithConfig constructs a Client from cfg with the supplied options
// applied on top.
func NewWithConfig(cfg Config, opts ...Option) (Client, error) {
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.applyDefaults()

	headers := make(http.Header, 2)
	headers.Set("Accept", "application/json")
	basic, err := auth.NewBasic(auth.BasicOptions{
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, configurationError("new", "", err)
	}
	if err := basic.Apply(headers); err != nil {
		return nil, configurationError("new", "", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logx.NewNoopLogger()
	}

	baseTransport := cfg.Transport
	if baseTransport == nil {
		baseTransport = defaultTransport()
	}

	transport := wrapTransport(baseTransport,
		newGzipMiddleware(),
	)

	if cfg.BreakerEnabled {
		breakerMgr := cfg.Breaker
		if breakerMgr == nil {
			breakerMgr = breaker.NewManager(breaker.Config{Logger: logger})
		}
		transport = wrapTransport(transport, breaker.NewMiddleware(breakerMgr))
	}

	transport = wrapTransport(transport, newLoggingMiddleware(logger))

	for _, mw := range cfg.Middlewares {
		if mw != nil {
			transport = wrapTransport(transport, mw)
		}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = cfg.Timeout
	httpClient.Transport = transport

	return &client{
		cfg:        cfg,
		headers:    headers,
		httpClient: httpClient,
		base:       baseTransport,
		logger:     logger,
	}, nil
}

func (c *client) BaseURL() string { return c.cfg.BaseURL }

func (c *client) Headers() http.Header { return c.headers.Clone() }

func (c *client) GetData(ctx context.Context, endpoint string) (Object, error) {
	return c.do(ctx, newRequest("get", http.MethodGet, c.cfg.BaseURL, endpoint, nil), false)
}

func (c *client) CreateData(ctx context.Context, endpoint string, body any) (Object, error) {
	return c.do(ctx, newRequest("create", http.MethodPost, c.cfg.BaseURL, endpoint, body), false)
}

func (c *client) UpdateData(ctx context.Context, endpoint string, body any) (Object, error) {
	return c.do(ctx, newRequest("update", http.MethodPut, c.cfg.BaseURL, endpoint, body), false)
}

func (c *client) DeleteData(ctx context.Context, endpoint string) (Object, error) {
	return c.do(ctx, newRequest("delete", http.MethodDelete, c.cfg.BaseURL, endpoint, nil), true)
}

func (c *client) do(ctx context.Context, r *request, allowEmpty bool) (Object, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	defer c.releaseConnections()

	httpReq, err := r.build(ctx, c.headers, c.cfg.UserAgent)
	if err != nil {
		return nil, configurationError(r.op, r.url, err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, transportError(r.op, r.url, unwrapURLError(err))
	}

	result, err := readResponse(resp)
	if err != nil {
		return nil, transportError(r.op, r.url, err)
	}

	c.reportStatus(r, result.status)

	if allowEmpty && len(bytes.TrimSpace(result.body)) == 0 {
		return nil, nil
	}

	obj, err := result.object()
	if err != nil {
		c.logger.Debug("odata response is not a json object",
			logx.String("url", r.url),
			logx.Int("status", result.status),
			logx.Int("bytes", len(result.body)),
		)
		return nil, responseFormatError(r.op, r.url, err)
	}
	return obj, nil
}

// reportStatus logs error statuses. The body is still parsed afterwards.
func (c *client) reportStatus(r *request, status int) {
	msg, ok := statusDiagnostic(status)
	if !ok {
		return
	}
	c.logger.Warn(msg,
		logx.String("method", r.method),
		logx.String("url", r.url),
		logx.Int("status", status),
	)
}

// releaseConnections closes pooled sockets so that nothing outlives the call.
// The middleware chain hides the base transport from http.Client, so it is
// reached directly.
func (c *client) releaseConnections() {
	if ci, ok := c.base.(interface{ CloseIdleConnections() }); ok {
		ci.CloseIdleConnections()
	}
}

// unwrapURLError drops the *url.Error layer added by http.Client, since
// Error already reports the operation and URL.
func unwrapURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Err
	}
	return err
}

func defaultTransport() http.RoundTripper {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
}
