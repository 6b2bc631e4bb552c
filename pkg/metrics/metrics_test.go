package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerDuration(t *testing.T) {
	timer := NewTimer()
	time.Sleep(10 * time.Millisecond)
	assert.GreaterOrEqual(t, timer.Duration(), 10*time.Millisecond)
}

func TestCountersAreRegistered(t *testing.T) {
	ReactionToggles.WithLabelValues("added").Inc()

	NewTimer().ObserveDurationVec(HTTPRequestDuration, http.MethodGet, "/health")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `social_reaction_toggles_total{outcome="added"}`))
	assert.True(t, strings.Contains(body, "social_http_request_duration_seconds"))
}
