// Package mail sends transactional email over SMTP.
package mail

import (
	"context"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"

	"github.com/eduportal/academic-api/internal/core/ports"
)

const resetSubject = "Reset your password"

var (
	resetHTML = htmltemplate.Must(htmltemplate.New("reset.html").Parse(
		`<p>Hello {{.Name}},</p>
<p>We received a request to reset the password of your account.
The link below is valid for one hour.</p>
<p><a href="{{.ResetURL}}">Reset password</a></p>
<p>If you did not ask for this, you can ignore this email.</p>`))

	resetText = texttemplate.Must(texttemplate.New("reset.txt").Parse(
		`Hello {{.Name}},

We received a request to reset the password of your account.
Open the link below within one hour to choose a new password:

{{.ResetURL}}

If you did not ask for this, you can ignore this email.
`))
)

// Config captures the SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer implements ports.Mailer on top of go-mail.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

// NewSMTPMailer builds a client for cfg. No connection is made until the
// first send.
func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, msg ports.ResetEmail) error {
	out, err := buildResetMessage(m.from, msg)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildResetMessage(from string, msg ports.ResetEmail) (*gomail.Msg, error) {
	out := gomail.NewMsg()
	if err := out.From(from); err != nil {
		return nil, fmt.Errorf("mail from: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("mail to: %w", err)
	}
	out.Subject(resetSubject)

	if err := out.SetBodyTextTemplate(resetText, msg); err != nil {
		return nil, fmt.Errorf("mail body: %w", err)
	}
	if err := out.AddAlternativeHTMLTemplate(resetHTML, msg); err != nil {
		return nil, fmt.Errorf("mail body: %w", err)
	}
	return out, nil
}

// LogMailer writes reset links to the log instead of sending them. It is used
// when no SMTP host is configured, typically in local development.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendPasswordReset(_ context.Context, msg ports.ResetEmail) error {
	m.log.Info().
		Str("recipient", msg.To).
		Str("reset_url", msg.ResetURL).
		Msg("password reset email (smtp disabled)")
	return nil
}
