package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestFrom(remoteAddr, forwardedFor string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	return req
}

func TestClientIPResolver_NoTrustedProxies(t *testing.T) {
	clients, err := NewClientIPResolver(nil)
	require.NoError(t, err)

	assert.Equal(t, "192.0.2.1", clients.ClientIP(requestFrom("192.0.2.1:1234", "")))
	assert.Equal(t, "192.0.2.1", clients.ClientIP(requestFrom("192.0.2.1:1234", "203.0.113.7")),
		"forwarded header is ignored without a trusted proxy")
	assert.Equal(t, "not-a-hostport", clients.ClientIP(requestFrom("not-a-hostport", "")))

	var unset *ClientIPResolver
	assert.Equal(t, "192.0.2.1", unset.ClientIP(requestFrom("192.0.2.1:1234", "203.0.113.7")))
}

func TestClientIPResolver_TrustedProxy(t *testing.T) {
	clients, err := NewClientIPResolver([]string{"10.0.0.0/8", " 127.0.0.1 "})
	require.NoError(t, err)

	tests := []struct {
		name         string
		remoteAddr   string
		forwardedFor string
		want         string
	}{
		{"untrusted peer keeps its own address", "192.0.2.1:1234", "203.0.113.7", "192.0.2.1"},
		{"single hop through proxy", "10.0.0.5:80", "203.0.113.7", "203.0.113.7"},
		{"client-supplied prefix is skipped", "10.0.0.5:80", "198.51.100.9, 203.0.113.7", "203.0.113.7"},
		{"chained trusted proxies", "127.0.0.1:80", "203.0.113.7, 10.1.2.3, 10.0.0.9", "203.0.113.7"},
		{"garbage before a trusted hop", "10.0.0.5:80", "evil, 10.0.0.7", "10.0.0.7"},
		{"no header falls back to the proxy", "10.0.0.5:80", "", "10.0.0.5"},
		{"every hop trusted", "10.0.0.5:80", "10.0.0.1", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clients.ClientIP(requestFrom(tt.remoteAddr, tt.forwardedFor)))
		})
	}
}

func TestNewClientIPResolver_Invalid(t *testing.T) {
	_, err := NewClientIPResolver([]string{"10.0.0.0/33"})
	assert.Error(t, err)

	_, err = NewClientIPResolver([]string{"proxy.local"})
	assert.Error(t, err)
}
