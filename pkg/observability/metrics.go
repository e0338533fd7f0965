package observability

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PrometheusHandler returns a Gin handler for Prometheus metrics
func PrometheusHandler(handler http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if handler != nil {
			handler.ServeHTTP(c.Writer, c.Request)
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "metrics handler not initialized",
			})
		}
	}
}

// AuthMetrics counts the auth flows the service cares about beyond
// per-request HTTP metrics.
type AuthMetrics struct {
	Logins              metric.Int64Counter
	LoginFailures       metric.Int64Counter
	InvitationsIssued   metric.Int64Counter
	InvitationsAccepted metric.Int64Counter
	SessionsRevoked     metric.Int64Counter
}

// NewAuthMetrics registers the auth counters on the global meter provider.
func NewAuthMetrics(serviceName string) (*AuthMetrics, error) {
	meter := otel.Meter(serviceName)

	logins, err := meter.Int64Counter("auth_logins_total")
	if err != nil {
		return nil, err
	}
	loginFailures, err := meter.Int64Counter("auth_login_failures_total")
	if err != nil {
		return nil, err
	}
	issued, err := meter.Int64Counter("auth_invitations_issued_total")
	if err != nil {
		return nil, err
	}
	accepted, err := meter.Int64Counter("auth_invitations_accepted_total")
	if err != nil {
		return nil, err
	}
	revoked, err := meter.Int64Counter("auth_sessions_revoked_total")
	if err != nil {
		return nil, err
	}

	return &AuthMetrics{
		Logins:              logins,
		LoginFailures:       loginFailures,
		InvitationsIssued:   issued,
		InvitationsAccepted: accepted,
		SessionsRevoked:     revoked,
	}, nil
}

// CountInvitation records an issued invitation labeled by target role.
func (m *AuthMetrics) CountInvitation(ctx context.Context, role string) {
	if m == nil {
		return
	}
	m.InvitationsIssued.Add(ctx, 1, metric.WithAttributes(attribute.String("role", role)))
}

// CountAcceptance records an accepted invitation labeled by role.
func (m *AuthMetrics) CountAcceptance(ctx context.Context, role string) {
	if m == nil {
		return
	}
	m.InvitationsAccepted.Add(ctx, 1, metric.WithAttributes(attribute.String("role", role)))
}

// CountLogin records a login attempt outcome.
func (m *AuthMetrics) CountLogin(ctx context.Context, success bool) {
	if m == nil {
		return
	}
	if success {
		m.Logins.Add(ctx, 1)
	} else {
		m.LoginFailures.Add(ctx, 1)
	}
}

// CountRevoked records n revoked sessions labeled by the revocation reason.
func (m *AuthMetrics) CountRevoked(ctx context.Context, reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SessionsRevoked.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
}
