package auth

import (
	"net/http"
)

// Provider contributes authentication metadata to the header set a client
// sends with every request.
type Provider interface {
	Apply(h http.Header) error
	Name() string
}
