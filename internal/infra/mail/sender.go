package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/lead-manager/internal/infra/queue"
)

//go:embed templates/*.html
var templates embed.FS

var newLeadTemplate = template.Must(template.ParseFS(templates, "templates/new_lead.html"))

// Dialer is the part of *gomail.Dialer the sender uses.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from, to, clientURL string) *EmailSender {
	return &EmailSender{
		Host:      host,
		Port:      port,
		User:      user,
		Password:  password,
		From:      from,
		To:        to,
		ClientURL: clientURL,
		dialer:    gomail.NewDialer(host, port, user, password),
	}
}

// SendNewLead mails the sales inbox about a freshly created lead.
func (s *EmailSender) SendNewLead(event queue.LeadEvent) error {
	m, err := s.newLeadMessage(event)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send new lead email via SMTP: %w", err)
	}
	return nil
}

func (s *EmailSender) newLeadMessage(event queue.LeadEvent) (*gomail.Message, error) {
	body, err := s.renderNewLead(event)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("New lead: %s (%s)", event.FullName, event.Source))
	m.SetBody("text/html", body)
	return m, nil
}

func (s *EmailSender) renderNewLead(event queue.LeadEvent) (string, error) {
	data := NewLeadEmailData{
		FullName:  event.FullName,
		Email:     event.Email,
		Company:   event.Company,
		Source:    event.Source.String(),
		Score:     event.Score,
		LeadValue: event.LeadValue,
		CreatedAt: event.OccurredAt,
	}
	if s.ClientURL != "" {
		data.DetailsURL = strings.TrimRight(s.ClientURL, "/") + "/leads/" + event.LeadID
	}

	var body bytes.Buffer
	if err := newLeadTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render new lead template: %w", err)
	}
	return body.String(), nil
}
