package auth_test

import (
	"net/http"
	"testing"

	"github.com/gostratum/odata/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicValue(t *testing.T) {
	assert.Equal(t, "Basic YWRtaW46c2VjcmV0", auth.BasicValue("admin", "secret"))
	assert.Equal(t, "Basic Og==", auth.BasicValue("", ""))
}

func TestBasicApply(t *testing.T) {
	provider, err := auth.NewBasic(auth.BasicOptions{Username: "user", Password: "pass"})
	require.NoError(t, err)
	assert.Equal(t, "basic", provider.Name())

	h := http.Header{}
	require.NoError(t, provider.Apply(h))
	assert.Equal(t, "Basic dXNlcjpwYXNz", h.Get("Authorization"))

	assert.Error(t, provider.Apply(nil))
}

func TestBasicRejectsUnsafeCredentials(t *testing.T) {
	cases := []auth.BasicOptions{
		{Username: "user\r\n", Password: "pass"},
		{Username: "user", Password: "pa\nss"},
		{Username: "us\x00er", Password: "pass"},
		{Username: "user", Password: "pass\x7f"},
	}
	for _, opts := range cases {
		_, err := auth.NewBasic(opts)
		assert.ErrorIs(t, err, auth.ErrInvalidCredential, "%q", opts)
	}
}
