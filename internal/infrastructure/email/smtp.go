package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"poolhub/internal/domain/ingestion"
)

type SMTPConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	FromAddress  string
	FromName     string
	OperatorAddr string
}

// SMTPAlertService delivers operator alerts over SMTP. The only alert today
// is the dead-letter notification raised by the retry sweep.
type SMTPAlertService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPAlertService(config SMTPConfig) *SMTPAlertService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPAlertService{
		config: config,
		dialer: dialer,
	}
}

func (s *SMTPAlertService) NotifyDead(ctx context.Context, failure *ingestion.Failure) error {
	subject := fmt.Sprintf("Ingestion failure %s is dead after %d attempts", failure.SID(), failure.Attempts())

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Dead-lettered webhook delivery</h2>
			<p>A webhook delivery exhausted its retry budget and needs manual attention.</p>
			<ul>
				<li>Failure ID: %s</li>
				<li>Provider: %s</li>
				<li>Attempts: %d</li>
				<li>Last error: %s</li>
				<li>First seen: %s</li>
			</ul>
			<p>The stored payload can be replayed from the admin retry endpoint once the cause is fixed.</p>
		</body>
		</html>
	`, failure.SID(), failure.Provider(), failure.Attempts(), failure.LastError(), failure.CreatedAt().Format("2006-01-02 15:04:05 UTC"))

	plainBody := fmt.Sprintf(`
Dead-lettered webhook delivery

Failure ID: %s
Provider: %s
Attempts: %d
Last error: %s
First seen: %s

The stored payload can be replayed from the admin retry endpoint once the cause is fixed.
	`, failure.SID(), failure.Provider(), failure.Attempts(), failure.LastError(), failure.CreatedAt().Format("2006-01-02 15:04:05 UTC"))

	return s.sendEmail(s.config.OperatorAddr, subject, htmlBody, plainBody)
}

func (s *SMTPAlertService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
