package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"time"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/darkhorse3pl/auth-service/internal/config"
)

const smtpDialTimeout = 30 * time.Second

// Sender delivers platform emails. Delivery is always best-effort from
// the caller's point of view: failures are returned for logging, never
// for rolling back the triggering operation.
type Sender interface {
	SendInvitation(ctx context.Context, data InvitationEmail) error
	SendSallaConnected(ctx context.Context, data SallaConnectedEmail) error
}

// InvitationEmail carries the fields of an invitation message
type InvitationEmail struct {
	To             string
	FullName       string
	StoreName      string
	Role           string
	InviterName    string
	InvitationLink string
	ExpiresInHours int
}

// SallaConnectedEmail carries the fields of a connection-success message
type SallaConnectedEmail struct {
	To        string
	FullName  string
	StoreName string
}

type smtpSender struct {
	client *gomail.Client
	from   string
	logger *zap.Logger
}

// NewSMTPSender creates an SMTP-backed sender from config. When SMTP is
// disabled it returns a sender that only logs what would have been sent,
// so local environments work without a mail server.
func NewSMTPSender(cfg config.SMTPConfig, logger *zap.Logger) (Sender, error) {
	if !cfg.Enabled {
		return &logSender{logger: logger}, nil
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(smtpDialTimeout),
	}

	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthLogin),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	if cfg.TLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts,
			gomail.WithTLSConfig(&tls.Config{InsecureSkipVerify: true}),
			gomail.WithTLSPolicy(gomail.NoTLS),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &smtpSender{client: client, from: cfg.From, logger: logger}, nil
}

func (s *smtpSender) SendInvitation(ctx context.Context, data InvitationEmail) error {
	subject := "You're invited to the Dark Horse 3PL Platform"
	body, err := renderTemplate(invitationTemplate, data)
	if err != nil {
		return err
	}

	return s.send(ctx, data.To, subject, body)
}

func (s *smtpSender) SendSallaConnected(ctx context.Context, data SallaConnectedEmail) error {
	subject := fmt.Sprintf("Salla store %s connected successfully", data.StoreName)
	body, err := renderTemplate(sallaConnectedTemplate, data)
	if err != nil {
		return err
	}

	return s.send(ctx, data.To, subject, body)
}

func (s *smtpSender) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("failed to set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("failed to set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	s.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}

// logSender logs instead of sending; used when SMTP is disabled
type logSender struct {
	logger *zap.Logger
}

func (s *logSender) SendInvitation(ctx context.Context, data InvitationEmail) error {
	s.logger.Info("SMTP disabled, invitation email suppressed",
		zap.String("to", data.To),
		zap.String("role", data.Role),
		zap.String("link", data.InvitationLink),
	)
	return nil
}

func (s *logSender) SendSallaConnected(ctx context.Context, data SallaConnectedEmail) error {
	s.logger.Info("SMTP disabled, connection email suppressed",
		zap.String("to", data.To),
		zap.String("store", data.StoreName),
	)
	return nil
}
