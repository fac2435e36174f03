package odata

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		base, endpoint, want string
	}{
		{"https://sap.example.com/odata/service", "entity", "https://sap.example.com/odata/service/entity"},
		{"https://sap.example.com/odata/service/", "entity", "https://sap.example.com/odata/service//entity"},
		{"https://sap.example.com/odata/service", "/entity", "https://sap.example.com/odata/service//entity"},
		{"https://sap.example.com/odata/service/", "/entity", "https://sap.example.com/odata/service///entity"},
		{"https://sap.example.com", "", "https://sap.example.com/"},
		{"", "entity", "/entity"},
		{"https://sap.example.com", "Orders?$top=5", "https://sap.example.com/Orders?$top=5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, endpointURL(tt.base, tt.endpoint), "%q + %q", tt.base, tt.endpoint)
	}
}

func TestRequestBuild(t *testing.T) {
	headers := http.Header{}
	headers.Set("Accept", "application/json")
	headers.Set("Authorization", "Basic YWRtaW46c2VjcmV0")

	t.Run("copies_fixed_headers", func(t *testing.T) {
		r := newRequest("get", http.MethodGet, "https://sap.example.com", "entity", nil)
		req, err := r.build(context.Background(), headers, "odata/0")
		require.NoError(t, err)

		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "https://sap.example.com/entity", req.URL.String())
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
		assert.Equal(t, "Basic YWRtaW46c2VjcmV0", req.Header.Get("Authorization"))
		assert.Equal(t, "odata/0", req.Header.Get("User-Agent"))
		assert.Empty(t, req.Header.Get("Content-Type"))
		assert.Nil(t, req.Body)
	})

	t.Run("does_not_share_header_storage", func(t *testing.T) {
		r := newRequest("get", http.MethodGet, "https://sap.example.com", "entity", nil)
		req, err := r.build(context.Background(), headers, "")
		require.NoError(t, err)
		req.Header.Set("Accept", "text/plain")
		assert.Equal(t, "application/json", headers.Get("Accept"))
	})

	t.Run("encodes_json_body", func(t *testing.T) {
		r := newRequest("create", http.MethodPost, "https://sap.example.com", "entity", map[string]any{"name": "demo"})
		req, err := r.build(context.Background(), headers, "")
		require.NoError(t, err)

		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"demo"}`, string(body))
		assert.Equal(t, int64(len(body)), req.ContentLength)
	})

	t.Run("fails_on_unencodable_body", func(t *testing.T) {
		r := newRequest("create", http.MethodPost, "https://sap.example.com", "entity", make(chan int))
		_, err := r.build(context.Background(), headers, "")
		assert.Error(t, err)
	})

	t.Run("fails_on_control_characters_in_url", func(t *testing.T) {
		r := newRequest("get", http.MethodGet, "https://sap.example.com", "ent\nity", nil)
		_, err := r.build(context.Background(), headers, "")
		assert.Error(t, err)
	})
}
