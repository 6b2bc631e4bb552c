package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/tokens"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func run(t *testing.T, mw echo.MiddlewareFunc, setup func(*http.Request)) (primitive.ObjectID, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	setup(req)
	c := e.NewContext(req, httptest.NewRecorder())

	var (
		id  primitive.ObjectID
		ok  bool
		hit bool
	)
	err := mw(func(c echo.Context) error {
		hit = true
		id, ok = AccountID(c)
		return nil
	})(c)
	if err == nil {
		require.True(t, hit)
	}
	return id, ok, err
}

func TestRequireAuth(t *testing.T) {
	mgr := tokens.NewManager("secret", time.Hour)
	account := primitive.NewObjectID()
	token, err := mgr.Issue(account)
	require.NoError(t, err)
	mw := RequireAuth(mgr, "x-auth-token")

	t.Run("custom header", func(t *testing.T) {
		id, ok, err := run(t, mw, func(r *http.Request) { r.Header.Set("x-auth-token", token) })
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, account, id)
	})

	t.Run("bearer fallback", func(t *testing.T) {
		id, _, err := run(t, mw, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) })
		require.NoError(t, err)
		assert.Equal(t, account, id)
	})

	t.Run("missing", func(t *testing.T) {
		_, _, err := run(t, mw, func(*http.Request) {})
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
		assert.Equal(t, "No token, authorization denied", he.Message)
	})

	t.Run("invalid", func(t *testing.T) {
		_, _, err := run(t, mw, func(r *http.Request) { r.Header.Set("x-auth-token", "garbage") })
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
		assert.Equal(t, "Token is not valid", he.Message)
	})
}

func TestOptionalAuth(t *testing.T) {
	mgr := tokens.NewManager("secret", time.Hour)
	account := primitive.NewObjectID()
	token, err := mgr.Issue(account)
	require.NoError(t, err)
	mw := OptionalAuth(mgr, "x-auth-token")

	id, ok, err := run(t, mw, func(r *http.Request) { r.Header.Set("x-auth-token", token) })
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, account, id)

	_, ok, err = run(t, mw, func(r *http.Request) { r.Header.Set("x-auth-token", "garbage") })
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = run(t, mw, func(*http.Request) {})
	require.NoError(t, err)
	assert.False(t, ok)
}
