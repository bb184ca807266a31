package middleware

import (
	"context"
	"net/http"
	"net/netip"
	"strings"

	"github.com/mssola/useragent"

	"storeguard/internal/audit"
)

// MaxXFFHeaderLength bounds the X-Forwarded-For header we are willing to parse.
const MaxXFFHeaderLength = 500

type clientIPKey struct{}
type userAgentKey struct{}

// ClientMetadata extracts the client IP address and User-Agent from the request.
// The values are stored on the context for handlers and attached as
// audit.RequestMetadata so security events and failed logins carry them.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r)
		userAgent := r.Header.Get("User-Agent")

		ctx := context.WithValue(r.Context(), clientIPKey{}, ip)
		ctx = context.WithValue(ctx, userAgentKey{}, userAgent)
		ctx = audit.WithRequestMetadata(ctx, parseRequestMetadata(ip, userAgent))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientIP retrieves the client IP address stored by ClientMetadata.
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// GetUserAgent retrieves the User-Agent stored by ClientMetadata.
func GetUserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(userAgentKey{}).(string); ok {
		return ua
	}
	return ""
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && len(xff) <= MaxXFFHeaderLength {
		first, _, _ := strings.Cut(xff, ",")
		first = strings.TrimSpace(first)
		if _, err := netip.ParseAddr(first); err == nil {
			return first
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if _, err := netip.ParseAddr(xri); err == nil {
			return xri
		}
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

func parseRequestMetadata(ip, userAgent string) audit.RequestMetadata {
	md := audit.RequestMetadata{IPAddress: ip, UserAgent: userAgent}
	if userAgent == "" {
		return md
	}

	ua := useragent.New(userAgent)
	browser, version := ua.Browser()
	if browser != "" {
		md.Browser = strings.TrimSpace(browser + " " + version)
	}
	md.OS = ua.OS()
	if md.OS == "" && ua.Mobile() {
		md.OS = ua.Platform()
	}
	return md
}
