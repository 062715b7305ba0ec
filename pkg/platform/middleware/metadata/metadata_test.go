package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"absences/pkg/requestcontext"
)

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{name: "first forwarded-for entry", headers: map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, expected: "10.0.0.1"},
		{name: "real ip header", headers: map[string]string{"X-Real-IP": " 10.0.0.3 "}, expected: "10.0.0.3"},
		{name: "ipv4 remote addr", remoteAddr: "192.168.1.4:5123", expected: "192.168.1.4"},
		{name: "ipv6 remote addr", remoteAddr: "[::1]:5123", expected: "::1"},
		{name: "nothing known", remoteAddr: "", expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, ClientIPFromRequest(req))
		})
	}
}

func TestClientMetadata_StoresIP(t *testing.T) {
	var seen string
	handler := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.ClientIP(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "172.16.0.9:80"

	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "172.16.0.9", seen)
}

func TestParseUserAgent(t *testing.T) {
	t.Run("browser", func(t *testing.T) {
		agent := ParseUserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		assert.Equal(t, "Chrome", agent.Browser)
		assert.Contains(t, agent.OS, "Linux")
		assert.False(t, agent.Bot)
		assert.False(t, agent.Mobile)
	})

	t.Run("crawler", func(t *testing.T) {
		agent := ParseUserAgent("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
		assert.True(t, agent.Bot)
	})

	t.Run("empty header", func(t *testing.T) {
		assert.Equal(t, requestcontext.Agent{}, ParseUserAgent("  "))
	})
}

func TestClientMetadata_StoresAgent(t *testing.T) {
	var seen requestcontext.Agent
	handler := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.ClientAgent(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "Chrome", seen.Browser)
}
