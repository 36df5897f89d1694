package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bookshelf/backend/internal/model"
	"github.com/bookshelf/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const authUserIDKey = "auth_user_id"

const (
	msgNoToken      = "No token found"
	msgInvalidToken = "Invalid token"
)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthMiddleware lets a request through only with a valid bearer token and
// leaves the token's user id on the context.
func AuthMiddleware(verifier TokenVerifier, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			log.WithFields(logrus.Fields{
				"path":   c.FullPath(),
				"reason": "missing",
			}).Warn("authentication failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.MessageResponse{Msg: msgNoToken})
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			log.WithFields(logrus.Fields{
				"path":   c.FullPath(),
				"reason": tokenFailureReason(err),
			}).Warn("authentication failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.MessageResponse{Msg: msgInvalidToken})
			return
		}

		log.WithFields(logrus.Fields{
			"path":    c.FullPath(),
			"user_id": userID,
		}).Info("user authenticated")
		c.Set(authUserIDKey, userID)
		c.Next()
	}
}

// GetAuthUserID returns the id stored by AuthMiddleware, or "".
func GetAuthUserID(c *gin.Context) string {
	return c.GetString(authUserIDKey)
}

// bearerToken strips a leading "Bearer " (case-sensitive). Any other header,
// a bare "Bearer" included, is taken as the raw token.
func bearerToken(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func tokenFailureReason(err error) string {
	switch {
	case errors.Is(err, service.ErrTokenExpired):
		return "expired"
	case errors.Is(err, service.ErrTokenSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, service.ErrTokenMalformed):
		return "malformed"
	default:
		return "unknown"
	}
}

// RequestLogger logs one line per request through logrus.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request")
		default:
			entry.Info("request")
		}
	}
}

// CORSMiddleware answers preflights and echoes allowed origins.
func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
