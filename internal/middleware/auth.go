package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/bookshelf/internal/pkg/response"
	"github.com/xyz-asif/bookshelf/internal/pkg/token"
	apperr "github.com/xyz-asif/bookshelf/pkg/errors"
)

// Identity is the resolved caller attached to the request context.
type Identity struct {
	UserID   string
	Username string
}

// IdentityResolver loads the user behind a verified token. It reports
// apperr.ErrUserNotFound and apperr.ErrAccountInactive so the
// middleware can answer with the matching codes.
type IdentityResolver interface {
	Resolve(ctx context.Context, userID string) (*Identity, error)
}

// Auth verifies the bearer token, resolves the owning user, and places
// the identity into the gin context under "userID" and "username".
func Auth(secret string, resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c.GetHeader("Authorization"))
		if tokenString == "" {
			response.Fail(c, http.StatusUnauthorized, "Authentication token not provided.", response.CodeNoToken)
			c.Abort()
			return
		}

		claims, err := token.Validate(secret, tokenString)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				response.Fail(c, http.StatusUnauthorized, "Token expired.", response.CodeTokenExpired)
			} else {
				response.Fail(c, http.StatusForbidden, "Invalid token.", response.CodeInvalidToken)
			}
			c.Abort()
			return
		}

		ident, err := resolver.Resolve(c.Request.Context(), claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, apperr.ErrUserNotFound):
				response.Fail(c, http.StatusNotFound, "User not found.", response.CodeUserNotFound)
			case errors.Is(err, apperr.ErrAccountInactive):
				response.Fail(c, http.StatusForbidden, "User account is inactive.", response.CodeAccountInactive)
			default:
				response.InternalError(c)
			}
			c.Abort()
			return
		}

		c.Set("userID", ident.UserID)
		c.Set("username", ident.Username)
		c.Next()
	}
}

// extractBearer accepts "Bearer <token>" (case-insensitive) or a raw
// token in the header.
func extractBearer(header string) string {
	if header == "" {
		return ""
	}
	fields := strings.Fields(header)
	if len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		return fields[1]
	}
	return header
}
