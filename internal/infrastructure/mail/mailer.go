package mail

import (
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/credinews/credinews-api/internal/config"
)

// Delivery reports the outcome of an OTP email. Delivery failure is never
// fatal to the flow that requested it: the stored code stays valid.
// DemoCode is populated only by the demo notifier so the response layer can
// disclose the code when no real transport is configured.
type Delivery struct {
	Sent     bool   `json:"sent"`
	Message  string `json:"message"`
	DemoCode string `json:"demo_code,omitempty"`
}

// Notifier delivers one-time codes.
type Notifier interface {
	SendOTPEmail(to, code string) Delivery
}

// NewNotifier returns the SMTP notifier, or the demo notifier when no SMTP
// host is configured.
func NewNotifier(cfg *config.Config) Notifier {
	if cfg.SMTPHost == "" {
		slog.Warn("SMTP not configured, OTP emails run in demo mode")
		return &demoNotifier{}
	}
	return &smtpNotifier{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

type smtpNotifier struct {
	host     string
	port     string
	from     string
	username string
	password string
}

func (m *smtpNotifier) SendOTPEmail(to, code string) Delivery {
	subject := "Your CrediNews verification code"
	body := fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		slog.Warn("OTP email delivery failed", "to", to, "err", err)
		return Delivery{Sent: false, Message: "email delivery failed, you may request a resend"}
	}
	return Delivery{Sent: true, Message: "verification code sent"}
}

// demoNotifier stands in when SMTP is unconfigured: it logs the code and
// hands it back for in-response disclosure, mirroring the unconfigured-
// transport behavior of the client app this service grew out of.
type demoNotifier struct{}

func (d *demoNotifier) SendOTPEmail(to, code string) Delivery {
	slog.Info("demo mode: OTP not emailed", "to", to, "code", code)
	return Delivery{Sent: false, Message: "demo mode: code not emailed", DemoCode: code}
}
