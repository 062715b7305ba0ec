package metadata

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"absences/pkg/requestcontext"
)

// ClientMetadata stores the caller's IP and parsed User-Agent in the context
// for access logs. Apply it after chi's RealIP so RemoteAddr already reflects
// proxies.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientIP(r.Context(), ClientIPFromRequest(r))
		ctx = requestcontext.WithClientAgent(ctx, ParseUserAgent(r.UserAgent()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ParseUserAgent reduces a User-Agent header to the fields worth logging.
// An empty header yields the zero Agent.
func ParseUserAgent(raw string) requestcontext.Agent {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return requestcontext.Agent{}
	}
	ua := useragent.New(raw)
	browser, _ := ua.Browser()
	return requestcontext.Agent{
		Browser: browser,
		OS:      ua.OS(),
		Mobile:  ua.Mobile(),
		Bot:     ua.Bot(),
	}
}

// ClientIPFromRequest extracts the client IP, preferring proxy headers.
func ClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// first entry is the original client
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "ip:port" or "[::1]:port"
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return strings.Trim(addr[:idx], "[]")
		}
		return addr
	}

	return "unknown"
}
