package mail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/darkhorse3pl/auth-service/internal/config"
)

func TestSMTPDialTimeoutIsInSeconds(t *testing.T) {
	// go-mail takes a time.Duration, so a bare integer literal would
	// silently mean nanoseconds and every dial would time out.
	assert.GreaterOrEqual(t, smtpDialTimeout, time.Second)
}

func TestNewSMTPSenderDisabledLogsOnly(t *testing.T) {
	sender, err := NewSMTPSender(config.SMTPConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	// The log-only sender never touches the network.
	assert.NoError(t, sender.SendInvitation(context.Background(), InvitationEmail{
		To:             "new-admin@acme.test",
		InvitationLink: "http://localhost:3000/invitations/accept?token=abc",
	}))
}

func TestNewSMTPSenderEnabled(t *testing.T) {
	sender, err := NewSMTPSender(config.SMTPConfig{
		Enabled:  true,
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "noreply@darkhorse3pl.com",
		TLS:      true,
	}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &smtpSender{}, sender)
}

func TestInvitationTemplateRenders(t *testing.T) {
	body, err := renderTemplate(invitationTemplate, InvitationEmail{
		FullName:       "New Admin",
		StoreName:      "Acme",
		Role:           "STORE_ADMIN",
		InviterName:    "Root Admin",
		InvitationLink: "http://localhost:3000/invitations/accept?token=abc",
		ExpiresInHours: 72,
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Acme")
	assert.Contains(t, body, "STORE_ADMIN")
	assert.Contains(t, body, "token=abc")
	assert.Contains(t, body, "72 hours")
}
