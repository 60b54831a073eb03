package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"circlepoint/internal/domain"
	"circlepoint/internal/pkg/jwt"
	"circlepoint/internal/pkg/response"
	"circlepoint/internal/repository"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// JWTAuth resolves the bearer token into the request's actor. Browsers cannot
// set headers on websocket upgrades, so a ?token= query parameter is accepted
// for GET requests as well.
func JWTAuth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, code, msg := bearerToken(c)
		if code != "" {
			response.Error(c, http.StatusUnauthorized, code, msg)
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (token, code, msg string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if q := c.Query("token"); q != "" && c.Request.Method == http.MethodGet {
			return q, "", ""
		}
		return "", "AUTH_HEADER_MISSING", "Authorization header is required"
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", "INVALID_AUTH_FORMAT", "Authorization header must be: Bearer <token>"
	}
	return strings.TrimSpace(parts[1]), "", ""
}

// ActorFrom returns the identity set by JWTAuth; the zero Actor when absent.
func ActorFrom(c *gin.Context) domain.Actor {
	return domain.Actor{
		ID:   c.GetString(ctxUserID),
		Role: domain.UserRole(c.GetString(ctxRole)),
	}
}

// UserLookup loads the account behind a token.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// CurrentRole replaces the role carried by the token with the one stored
// for the account, so a promotion takes effect without a new login. It
// must run after JWTAuth.
func CurrentRole(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := users.GetByID(c.Request.Context(), c.GetString(ctxUserID))
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		c.Set(ctxRole, string(u.Role))
		c.Next()
	}
}
