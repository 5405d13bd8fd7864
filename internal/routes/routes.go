package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bouncer/internal/handlers"
)

// SetupRoutes wires the public surface. guards is the abuse-mitigation
// chain (flood guard, then per-identity rate limit) and is scoped to the
// subscribe route: rejected methods never touch limiter state.
func SetupRoutes(
	r *gin.Engine,
	subscribeHandler *handlers.SubscribeHandler,
	healthHandler *handlers.HealthHandler,
	guards []gin.HandlerFunc,
) *gin.Engine {
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	// ---- public
	api := r.Group("/api")
	{
		api.POST("/subscribe", append(append([]gin.HandlerFunc{}, guards...), subscribeHandler.Subscribe)...)
		api.GET("/health", healthHandler.Health)
	}

	return r
}
