package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// subjectCtxKey is the Gin context key holding the authenticated subject.
const subjectCtxKey = "auth_subject"

// BearerMiddleware rejects requests without a valid, unexpired bearer
// token. Websocket handshakes may pass the token as ?access_token=
// instead, since some realtime clients cannot set arbitrary headers.
func BearerMiddleware(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		subject, err := tokens.Validate(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(subjectCtxKey, subject)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	// Handshake fallback for the realtime channel.
	return strings.TrimSpace(c.Query("access_token"))
}

// Subject returns the authenticated username from the request context.
func Subject(c *gin.Context) string {
	v, _ := c.Get(subjectCtxKey)
	s, _ := v.(string)
	return s
}
