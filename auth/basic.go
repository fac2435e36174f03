package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/net/http/httpguts"
)

// ErrInvalidCredential reports a username or password that cannot be carried
// in an HTTP header.
var ErrInvalidCredential = errors.New("credential is not valid header content")

// BasicOptions configure basic auth provider.
type BasicOptions struct {
	Username string
	Password string
}

// NewBasic validates the credentials and precomputes the Authorization value.
// Empty usernames and passwords are accepted.
func NewBasic(opts BasicOptions) (Provider, error) {
	if !httpguts.ValidHeaderFieldValue(opts.Username) {
		return nil, fmt.Errorf("username: %w", ErrInvalidCredential)
	}
	if !httpguts.ValidHeaderFieldValue(opts.Password) {
		return nil, fmt.Errorf("password: %w", ErrInvalidCredential)
	}
	value := BasicValue(opts.Username, opts.Password)
	if !httpguts.ValidHeaderFieldValue(value) {
		return nil, fmt.Errorf("authorization header: %w", ErrInvalidCredential)
	}
	return &basicProvider{value: value}, nil
}

// BasicValue returns "Basic " followed by the standard padded base64 encoding
// of "username:password".
func BasicValue(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

type basicProvider struct {
	value string
}

func (p *basicProvider) Apply(h http.Header) error {
	if h == nil {
		return errors.New("nil header set")
	}
	h.Set("Authorization", p.value)
	return nil
}

func (p *basicProvider) Name() string {
	return "basic"
}
