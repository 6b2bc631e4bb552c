package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ErrorHandler renders every error as {"message": "..."}. Errors that are not
// echo.HTTPErrors are unexpected: they are logged and reported as a bare 500.
func ErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Server error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			message = fmt.Sprint(he.Message)
			if he.Internal != nil {
				log.Error().Err(he.Internal).Int("status", code).Str("path", c.Path()).Msg("request failed")
			}
		} else {
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, echo.Map{"message": message})
		}
		if err != nil {
			log.Error().Err(err).Msg("failed to write error response")
		}
	}
}

// storeError maps repository sentinels onto client errors. Anything else is
// returned unchanged and ends up as a 500.
func storeError(err error, notFound string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, repositories.ErrInvalidID):
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	case errors.Is(err, repositories.ErrDuplicate):
		return echo.NewHTTPError(http.StatusBadRequest, "User already exists")
	case errors.Is(err, repositories.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "Concurrent update, please retry")
	default:
		return err
	}
}
