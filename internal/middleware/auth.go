package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"casino-engine/internal/config"
	pkgAuth "casino-engine/pkg/auth"

	"github.com/gin-gonic/gin"
)

const ContextPlayerIDKey = "playerID"

// SessionRequired resolves the player ID from the bearer session token.
func SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := pkgAuth.ParsePlayerToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextPlayerIDKey, claims.SubjectID)
		c.Next()
	}
}

// AdminTokenRequired gates the table-administration routes behind the
// static API token from config. There is no admin account model.
func AdminTokenRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := config.GlobalConfig.Admin.APIToken
		if expected == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin api disabled"})
			return
		}
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin token"})
			return
		}
		c.Next()
	}
}

func extractBearerToken(authHeader string) (string, error) {
	if strings.TrimSpace(authHeader) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
