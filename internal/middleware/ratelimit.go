package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bouncer/internal/ratelimit"
	"bouncer/internal/utils"
)

// RateLimit rejects bursts per client identity. Attach it to the signup
// route only: wrong-method requests must not consume window slots.
func RateLimit(store ratelimit.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := ClientIdentity(c.Request)
		c.Set(identityKey, identity)

		if !store.Allow(c.Request.Context(), identity, time.Now()) {
			// log the digest, never the raw identity
			log.Info("[ratelimit] rejected burst",
				zap.String("identity_hash", utils.SHA256Hex(identity)),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
