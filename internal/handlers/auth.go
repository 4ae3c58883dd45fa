package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gatewatch/gate-metrics-service/internal/auth"
	"github.com/gatewatch/gate-metrics-service/internal/models"
)

// RegisterAuthRoutes registers the public token endpoint.
//
// POST /auth/token {"username": "...", "password": "..."}
// The credential pair comes from configuration; this service does no
// further identity management.
func RegisterAuthRoutes(r gin.IRoutes, tokens *auth.TokenService, username, password string) {
	r.POST("/auth/token", func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil ||
			strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
			return
		}

		if req.Username != username || req.Password != password {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		token, err := tokens.Issue(req.Username)
		if err != nil {
			// Covers the missing-signing-key misconfiguration; the
			// process stays up, only this call fails.
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
			return
		}

		c.JSON(http.StatusOK, models.TokenResponse{Token: token})
	})
}
