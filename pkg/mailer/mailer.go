package mailer

import (
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Settings carries the SMTP configuration read from the settings table.
type Settings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

func (s Settings) Enabled() bool {
	return s.Host != "" && s.From != "" && s.To != ""
}

// Mailer sends staff notification mails. Failures are logged and swallowed;
// mail is best-effort and never blocks an order.
type Mailer struct {
	settings func() Settings
}

func New(settings func() Settings) *Mailer {
	return &Mailer{settings: settings}
}

func (m *Mailer) Send(subject, body string) {
	cfg := m.settings()
	if !cfg.Enabled() {
		return
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.From)
	msg.SetHeader("To", cfg.To)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		zap.L().Warn("notification mail failed", zap.String("subject", subject), zap.Error(err))
	}
}
