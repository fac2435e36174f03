package odata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// request captures one call against the service.
type request struct {
	op     string
	method string
	url    string
	body   any
}

// endpointURL joins base and endpoint with exactly one inserted slash. Neither
// side is trimmed, so "a/" + "/b" yields "a//b".
func endpointURL(baseURL, endpoint string) string {
	return baseURL + "/" + endpoint
}

func newRequest(op, method, baseURL, endpoint string, body any) *request {
	return &request{
		op:     op,
		method: method,
		url:    endpointURL(baseURL, endpoint),
		body:   body,
	}
}

// build expands the request into a concrete *http.Request carrying a copy of
// the client's fixed headers.
func (r *request) build(ctx context.Context, headers http.Header, userAgent string) (*http.Request, error) {
	var body io.Reader
	var payload []byte
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		payload = b
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, err
	}

	for k, vv := range headers {
		for _, v := range vv {
			httpReq.Header.Add(k, v)
		}
	}
	if userAgent != "" {
		httpReq.Header.Set("User-Agent", userAgent)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.ContentLength = int64(len(payload))
	}

	return httpReq, nil
}
