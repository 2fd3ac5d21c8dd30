// Package mailer renders stored email templates and delivers them over SMTP.
// Placeholders use the {{name}} form; unknown placeholders are left intact so
// a missing variable is visible in the delivered mail instead of vanishing.
package mailer

import (
	"errors"
	"fmt"
	"net/smtp"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

var (
	// ErrTemplateNotFound is returned when no template exists for the slug.
	ErrTemplateNotFound = errors.New("email template not found")
	// ErrTemplateInactive is returned when the template exists but is disabled.
	ErrTemplateInactive = errors.New("email template is inactive")
	// ErrNoRecipients is returned when a send is attempted without recipients.
	ErrNoRecipients = errors.New("no recipients given")
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.]+)\s*\}\}`)

// Render substitutes {{name}} placeholders in the input with the given
// variable values. Placeholders without a matching variable stay as-is.
func Render(input string, variables map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]

		value, ok := variables[name]
		if !ok {
			return match
		}

		return value
	})
}

// Message is one rendered mail ready for delivery.
type Message struct {
	Subject  string
	HTMLBody string
	TextBody string
}

// RenderTemplate renders subject and bodies of a template with the given
// variables.
func RenderTemplate(tmpl *models.EmailTemplate, variables map[string]string) Message {
	return Message{
		Subject:  Render(tmpl.Subject, variables),
		HTMLBody: Render(tmpl.HTMLContent, variables),
		TextBody: Render(tmpl.TextContent, variables),
	}
}

// Mailer loads templates from the database and sends rendered mail.
type Mailer struct {
	db  *gorm.DB
	cfg *config.Mail
}

// New creates a mailer with the given mail configuration.
func New(db *gorm.DB, cfg *config.Mail) *Mailer {
	return &Mailer{db: db, cfg: cfg}
}

// SendTemplate looks up an active template by slug, renders it and delivers
// it to the recipients.
func (m *Mailer) SendTemplate(slug string, recipients []string, variables map[string]string) error {
	if len(recipients) == 0 {
		return ErrNoRecipients
	}

	var tmpl models.EmailTemplate

	err := m.db.Where("slug = ?", slug).First(&tmpl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTemplateNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	if !tmpl.IsActive {
		return ErrTemplateInactive
	}

	msg := RenderTemplate(&tmpl, variables)

	if err := m.deliver(recipients, msg); err != nil {
		return err
	}

	log.Info().Str("template", slug).Int("recipients", len(recipients)).
		Msg("Mail sent")

	return nil
}

// deliver pushes the message out over SMTP. The HTML body wins when both
// bodies are present.
func (m *Mailer) deliver(recipients []string, msg Message) error {
	body := msg.HTMLBody
	contentType := "text/html; charset=UTF-8"

	if body == "" {
		body = msg.TextBody
		contentType = "text/plain; charset=UTF-8"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	fmt.Fprintf(&b, "\r\n%s\r\n", body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, recipients, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}
