// Package metrics collects and exposes Prometheus counters for the
// authentication operations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the service layer records through.
type Recorder interface {
	RecordRegistration()
	RecordEmailVerified()
	RecordLogin()
	RecordLoginFailure(reason string)
	RecordTokenRefresh()
	RecordRefreshFailure()
	RecordPasswordReset()
}

// Collector implements Recorder on a Prometheus registry.
type Collector struct {
	registrations   prometheus.Counter
	emailsVerified  prometheus.Counter
	logins          prometheus.Counter
	loginFailures   *prometheus.CounterVec
	tokenRefreshes  prometheus.Counter
	refreshFailures prometheus.Counter
	passwordResets  prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Total number of successful user registrations",
		}),
		emailsVerified: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_emails_verified_total",
			Help: "Total number of completed email verifications",
		}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of successful logins",
		}),
		loginFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_login_failures_total",
			Help: "Total number of failed logins by reason",
		}, []string{"reason"}),
		tokenRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_token_refreshes_total",
			Help: "Total number of successful refresh token rotations",
		}),
		refreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_refresh_failures_total",
			Help: "Total number of rejected refresh attempts",
		}),
		passwordResets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_password_resets_total",
			Help: "Total number of completed password resets",
		}),
	}

	reg.MustRegister(
		c.registrations,
		c.emailsVerified,
		c.logins,
		c.loginFailures,
		c.tokenRefreshes,
		c.refreshFailures,
		c.passwordResets,
	)

	return c
}

func (c *Collector) RecordRegistration() { c.registrations.Inc() }

func (c *Collector) RecordEmailVerified() { c.emailsVerified.Inc() }

func (c *Collector) RecordLogin() { c.logins.Inc() }

func (c *Collector) RecordLoginFailure(reason string) {
	c.loginFailures.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordTokenRefresh() { c.tokenRefreshes.Inc() }

func (c *Collector) RecordRefreshFailure() { c.refreshFailures.Inc() }

func (c *Collector) RecordPasswordReset() { c.passwordResets.Inc() }

// Handler serves the registry in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Noop discards all measurements. Used in tests.
type Noop struct{}

func (Noop) RecordRegistration() {}
func (Noop) RecordEmailVerified() {}
func (Noop) RecordLogin() {}
func (Noop) RecordLoginFailure(string) {}
func (Noop) RecordTokenRefresh() {}
func (Noop) RecordRefreshFailure() {}
func (Noop) RecordPasswordReset() {}
