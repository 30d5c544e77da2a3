package middleware

import (
	"net/http"
	"strings"

	"busdesk/internal/shared/config"
	"busdesk/internal/shared/utils/response"
	"busdesk/internal/upstream"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	ContextKeyUserID      = "user_id"
	ContextKeyUserEmail   = "user_email"
	ContextKeyUserRole    = "user_role"
	ContextKeyAccessToken = "access_token"
	ContextKeyRequestID   = "request_id"
)

// JWTAuthWithConfig rejects requests without a valid access token
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil, nil)
			c.Abort()
			return
		}

		claims, err := parseAccessToken(tokenString, cfg.JWT.Secret)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid or expired token", nil, nil)
			c.Abort()
			return
		}

		setClaims(c, claims, tokenString)
		c.Next()
	}
}

// OptionalAuthWithConfig attaches claims and the raw token when the bearer
// token verifies; anything else continues as a guest.
func OptionalAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		claims, err := parseAccessToken(tokenString, cfg.JWT.Secret)
		if err != nil {
			c.Next()
			return
		}

		setClaims(c, claims, tokenString)
		c.Next()
	}
}

// RequestID makes sure every request carries an X-Request-ID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(upstream.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Writer.Header().Set(upstream.HeaderRequestID, requestID)
		c.Next()
	}
}

// Credentials returns what the request may forward to the booking service
func Credentials(c *gin.Context) upstream.Credentials {
	return upstream.Credentials{
		AccessToken: c.GetString(ContextKeyAccessToken),
		UserID:      UserID(c),
	}
}

// UserID returns the authenticated user id, or "" for guests
func UserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

func bearerToken(authHeader string) (string, bool) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func parseAccessToken(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if tokenType, ok := claims["type"]; !ok || tokenType != "access" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func setClaims(c *gin.Context, claims jwt.MapClaims, tokenString string) {
	if userID, ok := claims["user_id"].(string); ok {
		c.Set(ContextKeyUserID, userID)
	}
	if email, ok := claims["email"].(string); ok {
		c.Set(ContextKeyUserEmail, email)
	}
	if role, ok := claims["role"].(string); ok {
		c.Set(ContextKeyUserRole, role)
	}
	c.Set(ContextKeyAccessToken, tokenString)
}
