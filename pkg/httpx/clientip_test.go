package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/batterydash/pkg/httpx"
)

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	req.Header.Set("X-Forwarded-For", "203.0.113.1")
	req.Header.Set("X-Real-IP", "203.0.113.2")
	require.Equal(t, "192.168.1.1", httpx.ClientIP(req), "headers are ignored")

	req.RemoteAddr = "192.168.1.1"
	require.Equal(t, "192.168.1.1", httpx.ClientIP(req))
}

func TestClientIPVia(t *testing.T) {
	trusted, err := httpx.ParseTrustedProxies([]string{"10.0.0.0/8", "192.168.1.1"})
	require.NoError(t, err)
	key := httpx.ClientIPVia(trusted)

	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{name: "no headers", remote: "10.0.0.5:1", want: "10.0.0.5"},
		{
			name:    "untrusted peer cannot forward",
			remote:  "198.51.100.7:1",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.1", "X-Real-IP": "203.0.113.2"},
			want:    "198.51.100.7",
		},
		{
			name:    "rightmost untrusted hop",
			remote:  "10.0.0.5:1",
			headers: map[string]string{"X-Forwarded-For": "1.2.3.4, 203.0.113.1, 10.0.0.9"},
			want:    "203.0.113.1",
		},
		{
			name:    "real ip from trusted peer",
			remote:  "192.168.1.1:1",
			headers: map[string]string{"X-Real-IP": " 203.0.113.2 "},
			want:    "203.0.113.2",
		},
		{
			name:    "all hops trusted",
			remote:  "10.0.0.5:1",
			headers: map[string]string{"X-Forwarded-For": "10.1.1.1"},
			want:    "10.0.0.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tt.want, key(req))
		})
	}
}

func TestClientIPViaWithoutProxies(t *testing.T) {
	key := httpx.ClientIPVia(nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.7:1"
	req.Header.Set("X-Forwarded-For", "203.0.113.1")
	require.Equal(t, "198.51.100.7", key(req))
}

func TestParseTrustedProxies(t *testing.T) {
	got, err := httpx.ParseTrustedProxies([]string{" 10.1.2.3/8 ", "::1", ""})
	require.NoError(t, err)
	require.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("::1/128"),
	}, got)

	_, err = httpx.ParseTrustedProxies([]string{"not-an-ip"})
	require.Error(t, err)
	_, err = httpx.ParseTrustedProxies([]string{"10.0.0.0/99"})
	require.Error(t, err)
}

func TestRateLimitIgnoresSpoofedForwarding(t *testing.T) {
	h := httpx.RateLimitByIP(httpx.RateLimit{Requests: 1, Window: time.Minute, Burst: 1}, nil)(okHandler())

	send := func(xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/Account/login", nil)
		req.RemoteAddr = "198.51.100.7:1"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, send("203.0.113.1"))
	require.Equal(t, http.StatusTooManyRequests, send("203.0.113.2"))
}
