package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "client_identity"

// ClientIdentity resolves the network-origin token used as the limiter
// key and as the identity-digest input. Precedence: first entry of
// X-Forwarded-For, then the transport peer address, then loopback.
func ClientIdentity(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}

	if host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr)); err == nil && host != "" {
		return host
	}
	if addr := strings.TrimSpace(r.RemoteAddr); addr != "" {
		return addr
	}
	return "127.0.0.1"
}

// IdentityFromContext returns the identity the rate limiter resolved, or
// derives it on the spot when the limiter stage is disabled.
func IdentityFromContext(c *gin.Context) string {
	if v, ok := c.Get(identityKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ClientIdentity(c.Request)
}
