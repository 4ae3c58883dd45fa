package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gatewatch/gate-metrics-service/internal/models"
	"github.com/gatewatch/gate-metrics-service/internal/webhook"
)

// RegisterWebhookRoutes registers subscriber management.
//
// POST   /notifications/webhooks {"url": "..."} → 201 | 409 | 400
// DELETE /notifications/webhooks?url=...        → 204 | 404 | 400
// GET    /notifications/webhooks                → sorted URL list
func RegisterWebhookRoutes(r gin.IRoutes, registry *webhook.Registry) {
	r.POST("/notifications/webhooks", func(c *gin.Context) {
		var req models.WebhookRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "url required"})
			return
		}

		u, err := url.Parse(req.URL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "url must be an absolute URI"})
			return
		}

		if !registry.Register(req.URL) {
			c.JSON(http.StatusConflict, gin.H{"error": "already registered"})
			return
		}
		c.Status(http.StatusCreated)
	})

	r.DELETE("/notifications/webhooks", func(c *gin.Context) {
		url := c.Query("url")
		if strings.TrimSpace(url) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "url required"})
			return
		}

		if !registry.Unregister(url) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.GET("/notifications/webhooks", func(c *gin.Context) {
		c.JSON(http.StatusOK, registry.List())
	})
}
