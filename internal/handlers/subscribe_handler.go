package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bouncer/internal/middleware"
	"bouncer/internal/services"
)

type SubscribeHandler struct {
	Signup    services.SignupService
	Challenge *services.ChallengeService // nil когда проверка выключена
	Log       *zap.Logger
}

func NewSubscribeHandler(signup services.SignupService, challenge *services.ChallengeService, log *zap.Logger) *SubscribeHandler {
	return &SubscribeHandler{Signup: signup, Challenge: challenge, Log: log}
}

// email stays `any` on purpose: a wrong-typed value has to reach the
// validator as-is instead of failing the bind with a leaky message
type subscribeRequest struct {
	Email any    `json:"email"`
	Token string `json:"token"`
}

// Subscribe godoc
// @Summary      Join the waitlist
// @Description  Admits an email address into the waitlist. Duplicate signups receive the same success response as new ones.
// @Tags         waitlist
// @Accept       json
// @Produce      json
// @Param        payload  body  object  true  "email (required), token (required when challenge verification is enabled)"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /subscribe [post]
func (h *SubscribeHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	identity := middleware.IdentityFromContext(c)

	if h.Challenge != nil {
		if err := h.Challenge.VerifyToken(c.Request.Context(), req.Token, identity); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Security challenge failed"})
			return
		}
	}

	_, err := h.Signup.Signup(c.Request.Context(), req.Email, identity, c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPayload):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		case errors.Is(err, services.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		default:
			// detail is already in the audit log; the caller gets nothing
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal security error"})
		}
		return
	}

	// new and duplicate signups are indistinguishable here by design
	c.JSON(http.StatusOK, gin.H{"message": "Success"})
}
