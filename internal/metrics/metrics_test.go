package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRegistration()
	c.RecordRegistration()
	c.RecordEmailVerified()
	c.RecordLogin()
	c.RecordLoginFailure("invalid_credentials")
	c.RecordLoginFailure("invalid_credentials")
	c.RecordLoginFailure("email_not_verified")
	c.RecordTokenRefresh()
	c.RecordRefreshFailure()
	c.RecordPasswordReset()

	assert.Equal(t, float64(2), testutil.ToFloat64(c.registrations))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.emailsVerified))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.logins))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.loginFailures.WithLabelValues("invalid_credentials")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.loginFailures.WithLabelValues("email_not_verified")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.tokenRefreshes))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.refreshFailures))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.passwordResets))
}

func TestHandler_ExposesRegisteredCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLogin()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "auth_logins_total 1")
}

func TestNewCollector_RegistersEverything(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	// Registering a second collector on the same registry must panic on the
	// duplicate metric names.
	assert.Panics(t, func() { NewCollector(reg) })
}
