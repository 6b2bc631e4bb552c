package validators

import (
	"net/http"
	"testing"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&models.RegisterRequest{Username: "alice", Email: "a@b.co", Password: "secret1"}))

	cases := map[string]models.RegisterRequest{
		"username is required":                   {Email: "a@b.co", Password: "secret1"},
		"Please include a valid email":           {Username: "alice", Email: "nope", Password: "secret1"},
		"password must be at least 6 characters": {Username: "alice", Email: "a@b.co", Password: "123"},
	}
	for want, req := range cases {
		err := v.Validate(&req)
		require.Error(t, err)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		assert.Equal(t, want, he.Message)
	}
}
