package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccountKey is the echo context key holding the authenticated account id.
const AccountKey = "account_id"

// TokenParser resolves a bearer token to the account it identifies.
type TokenParser interface {
	Parse(token string) (primitive.ObjectID, error)
}

// RequireAuth rejects requests without a valid token. The token is read from
// header, falling back to "Authorization: Bearer <token>".
func RequireAuth(tokens TokenParser, header string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := extractToken(c.Request(), header)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
			}
			id, err := tokens.Parse(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
			}
			c.Set(AccountKey, id)
			return next(c)
		}
	}
}

// OptionalAuth identifies the caller when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(tokens TokenParser, header string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := extractToken(c.Request(), header); raw != "" {
				if id, err := tokens.Parse(raw); err == nil {
					c.Set(AccountKey, id)
				}
			}
			return next(c)
		}
	}
}

// AccountID returns the authenticated account, if any.
func AccountID(c echo.Context) (primitive.ObjectID, bool) {
	id, ok := c.Get(AccountKey).(primitive.ObjectID)
	return id, ok
}

func extractToken(r *http.Request, header string) string {
	if header != "" {
		if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
			return v
		}
	}
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
