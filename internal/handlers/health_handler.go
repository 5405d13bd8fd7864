package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bouncer/internal/config"
)

type HealthHandler struct {
	Cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{Cfg: cfg}
}

// Health godoc
// @Summary      Deployment diagnostic
// @Description  Reports whether required secret material is present, without revealing any value.
// @Tags         ops
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	envCheck := "SECURE"
	if h.Cfg.Database.DSN == "" {
		envCheck = "MISSING"
	}
	if h.Cfg.Challenge.Enabled && h.Cfg.Challenge.Secret == "" {
		envCheck = "MISSING"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Bouncer is active",
		"env_check": envCheck,
	})
}
