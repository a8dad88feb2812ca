package server

import (
	"fmt"
	"net/http"
	"net/smtp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eleanorewu/folio/internal/config"
	"github.com/eleanorewu/folio/internal/prefs"
	"github.com/eleanorewu/folio/internal/store"
)

// Mailer delivers a contact message.
type Mailer interface {
	Send(m store.Message) error
}

// SMTPMailer sends contact messages through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
	cfg  config.SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer returns a mailer for cfg, or nil when no credentials are
// configured.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	if !cfg.Enabled() {
		return nil
	}
	if cfg.To == "" {
		cfg.To = cfg.User
	}
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

// Send composes and sends the notification mail.
func (m *SMTPMailer) Send(msg store.Message) error {
	subject := fmt.Sprintf("Portfolio Contact: %s", headerSafe(msg.Name))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Body)

	raw := []byte("To: " + m.cfg.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.cfg.User + "\r\n" +
		"Reply-To: " + headerSafe(msg.Email) + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	if err := m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.User, []string{m.cfg.To}, raw); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// headerSafe strips line breaks so form input cannot add mail headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// contactForm is the POST /contact payload.
type contactForm struct {
	FullName string `form:"fullName" binding:"required,max=200"`
	Email    string `form:"email" binding:"required,email,max=320"`
	Message  string `form:"message" binding:"required,max=5000"`
}

// contact stores the message and tries to mail it. HTMX requests get a
// fragment; plain form posts are sent back to the contact section.
func (s *Server) contact(c *gin.Context) {
	lang := prefs.From(c).Lang

	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		s.contactResult(c, false, lang.Msg("contact.invalid"))
		return
	}
	msg := store.Message{
		Name:  strings.TrimSpace(form.FullName),
		Email: strings.TrimSpace(form.Email),
		Body:  strings.TrimSpace(form.Message),
	}
	if msg.Name == "" || msg.Body == "" {
		s.contactResult(c, false, lang.Msg("contact.invalid"))
		return
	}

	ctx := c.Request.Context()
	id, err := s.store.SaveMessage(ctx, msg)
	if err != nil {
		s.logger.Error("save contact message", "err", err)
		s.contactResult(c, false, lang.Msg("contact.failed"))
		return
	}

	if s.mailer != nil {
		if err := s.mailer.Send(msg); err != nil {
			s.logger.Error("deliver contact message", "id", id, "err", err)
			s.contactResult(c, false, lang.Msg("contact.failed"))
			return
		}
		if err := s.store.MarkDelivered(ctx, id); err != nil {
			s.logger.Warn("mark message delivered", "id", id, "err", err)
		}
	}
	s.logger.Info("contact message received", "id", id, "delivered", s.mailer != nil)
	s.contactResult(c, true, lang.Msg("contact.ok"))
}

func (s *Server) contactResult(c *gin.Context, ok bool, text string) {
	if c.GetHeader("HX-Request") == "" {
		sent := "0"
		if ok {
			sent = "1"
		}
		c.Redirect(http.StatusSeeOther, "/?sent="+sent+"#contact")
		return
	}
	if ok {
		c.HTML(http.StatusOK, "contact-success.html", gin.H{"success": text})
		return
	}
	c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": text})
}
