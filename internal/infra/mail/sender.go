package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/spinnata-waitlist/internal/entity"
)

const newLeadSubject = "New Spinnata Lead!"

//go:embed templates/*.html
var templatesFS embed.FS

var newLeadTemplate = template.Must(template.ParseFS(templatesFS, "templates/new_lead.html"))

// Dialer is the part of gomail.Dialer the sender needs.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Sender struct {
	EmailSender
	dialer Dialer
	now    func() time.Time
}

func NewEmailSender(cfg EmailSender) *Sender {
	return &Sender{
		EmailSender: cfg,
		dialer:      gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		now:         time.Now,
	}
}

// NotifyNewLead mails the operator a summary of the lead.
func (s *Sender) NotifyNewLead(ctx context.Context, lead entity.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := LeadNotificationData{
		Email:     lead.Email,
		Source:    valueOr(lead.Source, "Direct"),
		Campaign:  valueOr(lead.Campaign, "N/A"),
		UserAgent: valueOr(lead.UserAgent, "N/A"),
		IP:        valueOr(lead.IP, "N/A"),
		Time:      s.now().UTC().Format(time.RFC3339),
	}

	var body bytes.Buffer
	if err := newLeadTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("rendering new lead email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", newLeadSubject)
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("sending new lead email via SMTP: %w", err)
	}

	return nil
}

func valueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
