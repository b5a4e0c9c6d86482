// Package email sends the subscription confirmation email through the Resend API.
package email

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/ceotarot/ceotarot/internal/i18n"
	"github.com/ceotarot/ceotarot/internal/models"
	"github.com/resend/resend-go/v2"
	"html/template"
	"log/slog"
	"net/url"
)

const (
	DefaultFromName = "CEO멘탈코치"
	threadsURL      = "https://www.threads.com/@shintaesoon"
)

//go:embed email.gohtml
var emailTemplate string

var tmpl = template.Must(template.New("email").Parse(emailTemplate))

type Config struct {
	APIKey    string
	FromEmail string
	FromName  string
	// BaseURL overrides the API endpoint. Empty means the public Resend API.
	BaseURL string
}

// Notifier emails a confirmation to each new lead.
type Notifier struct {
	client   *resend.Client
	from     string
	fromName string
}

// New creates a Notifier. Without an API key or sender address the Notifier is unconfigured.
func New(cfg Config) (*Notifier, error) {
	fromName := cfg.FromName
	if fromName == "" {
		fromName = DefaultFromName
	}
	if cfg.APIKey == "" || cfg.FromEmail == "" {
		return &Notifier{client: nil, from: "", fromName: fromName}, nil
	}
	client := resend.NewClient(cfg.APIKey)
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "parse resend base url", slog.String("url", cfg.BaseURL))
		}
		client.BaseURL = u
	}
	return &Notifier{
		client:   client,
		from:     fmt.Sprintf("%s <%s>", fromName, cfg.FromEmail),
		fromName: fromName,
	}, nil
}

func (n *Notifier) Name() string {
	return "resend"
}

func (n *Notifier) Configured() bool {
	return n != nil && n.client != nil
}

// Render returns the subject and HTML body of the confirmation for lead.
func (n *Notifier) Render(ctx context.Context, lead models.Lead) (string, string, error) {
	var buf bytes.Buffer
	data := struct {
		Greeting   string
		ThreadsURL string
		FromName   string
	}{
		Greeting:   i18n.T(ctx, i18n.MsgEmailGreeting, lead.Name),
		ThreadsURL: threadsURL,
		FromName:   n.fromName,
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", "", errors.Wrap(err, "render email")
	}
	return i18n.T(ctx, i18n.MsgEmailSubject), buf.String(), nil
}

// Notify sends the confirmation email to lead.
func (n *Notifier) Notify(ctx context.Context, lead models.Lead) error {
	if !n.Configured() {
		return errors.New("resend notifier not configured")
	}
	subject, html, err := n.Render(ctx, lead)
	if err != nil {
		return err
	}
	params := &resend.SendEmailRequest{ //nolint:exhaustruct // API struct
		From:    n.from,
		To:      []string{lead.Email},
		Subject: subject,
		Html:    html,
	}
	if _, err = n.client.Emails.SendWithContext(ctx, params); err != nil {
		return errors.Wrap(err, "send email")
	}
	return nil
}
