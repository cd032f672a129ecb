package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/gpozzoni/tennis-academy-api/config"
)

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) SendEmail(to []string, subject string, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         s.cfg.SMTPHost,
	}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Implicit TLS.
		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("failed to open TLS connection: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
	} else {
		// STARTTLS, usually port 587.
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return fmt.Errorf("STARTTLS command failed: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("MAIL FROM command failed: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("RCPT TO command failed for %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close DATA writer: %w", err)
	}
	return nil
}

var structurePublishedTemplate = template.Must(template.New("structure_published").Parse(`
<h2>Il tabellone è pronto!</h2>
<p>The draw for <strong>{{.TournamentTitle}}</strong> has been published.</p>
<p><a href="{{.Link}}">View your matches</a></p>
<p>Tennis Academy</p>`))

// SendStructurePublishedEmail notifies every entrant that the draw for
// their tournament is out. One message per recipient so addresses are
// not leaked between entrants.
func (s *EmailService) SendStructurePublishedEmail(emails []string, tournamentTitle string, tournamentID int) error {
	data := struct {
		TournamentTitle string
		Link            string
	}{
		TournamentTitle: tournamentTitle,
		Link:            fmt.Sprintf("%s/tournaments/%d", s.cfg.PublicURL, tournamentID),
	}

	var body bytes.Buffer
	if err := structurePublishedTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render structure notification: %w", err)
	}

	subject := fmt.Sprintf("Il tabellone di '%s' è pronto", tournamentTitle)
	for _, email := range emails {
		if err := s.SendEmail([]string{email}, subject, body.String()); err != nil {
			return fmt.Errorf("failed to notify %s: %w", email, err)
		}
	}
	return nil
}
