// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides bearer-token authentication. RequireAuth parses the
// Authorization header, validates the access token, and stores the
// authenticated user ID in the Gin context (key "userID") for handlers,
// logging, and rate limiting.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/morseverse/backend/internal/security"
)

// RequireAuth returns a Gin middleware that enforces a valid
// "Authorization: Bearer <token>" header.
//
// Invalid or missing credentials abort the request with a 401 JSON body using
// the standard error envelope. On success the token's user ID is stored under
// the "userID" context key.
func RequireAuth(tokens *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := bearerUserID(tokens, c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", `Bearer realm="api"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "unauthorized",
				"message":    "invalid or missing credentials",
			})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

// OptionalAuth resolves the user identity when a bearer token is present but
// never rejects the request. Used on routes that accept anonymous traffic yet
// benefit from per-user rate limiting and log attribution.
func OptionalAuth(tokens *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := bearerUserID(tokens, c.GetHeader("Authorization")); ok {
			c.Set("userID", userID)
		}
		c.Next()
	}
}

// bearerUserID extracts and validates the user ID carried by an
// "Authorization: Bearer" header value. Only access tokens pass; emailed
// verification and reset tokens are rejected here.
func bearerUserID(tokens *security.TokenIssuer, header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	userID, err := tokens.Parse(strings.TrimSpace(header[len(prefix):]), security.PurposeAccess)
	if err != nil || userID == "" {
		return "", false
	}
	return userID, true
}
