package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	msgPostNotFound    = "Post not found"
	msgUserNotFound    = "User not found"
	msgCommentNotFound = "Comment not found"
	msgNotAuthorized   = "User not authorized"
	msgInvalidPayload  = "Invalid request payload"
)

// currentAccountID returns the caller on routes guarded by RequireAuth.
func currentAccountID(c echo.Context) primitive.ObjectID {
	id, _ := middleware.AccountID(c)
	return id
}

// currentAccount loads the caller's account. A token for an account that no
// longer exists is treated like an invalid token.
func currentAccount(c echo.Context, accounts repositories.AccountRepository) (*models.Account, error) {
	id, ok := middleware.AccountID(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
	}
	acct, err := accounts.GetByID(c.Request().Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
	}
	return acct, err
}

// optionalViewer returns the caller's account on optionally authenticated
// routes, or nil for anonymous callers.
func optionalViewer(c echo.Context, accounts repositories.AccountRepository) (*models.Account, error) {
	id, ok := middleware.AccountID(c)
	if !ok {
		return nil, nil
	}
	acct, err := accounts.GetByID(c.Request().Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return acct, err
}

// paramID parses a path parameter as an ObjectID; malformed ids are reported
// as the resource not existing.
func paramID(c echo.Context, name, notFound string) (primitive.ObjectID, error) {
	id, err := repositories.ParseID(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusNotFound, notFound)
	}
	return id, nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidPayload)
	}
	return c.Validate(req)
}
