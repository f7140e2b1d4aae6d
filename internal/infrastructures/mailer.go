package infrastructures

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gopkg.in/gomail.v2"
)

// Mailer delivers one prepared message.
type Mailer interface {
	From() string
	Send(ctx context.Context, m *gomail.Message) error
}

// SMTPMailer sends through an SMTP relay, throttled to MAIL_PER_SECOND.
type SMTPMailer struct {
	dialer  *gomail.Dialer
	limiter *rate.Limiter
	from    string
}

// NoopMailer drops messages. It is used when SMTP_HOST is not configured.
type NoopMailer struct {
	from string
}

func NewMailer(config *AppConfig) Mailer {
	if !config.MailEnabled() {
		logrus.Warn("SMTP_HOST not set, outgoing mail is disabled")
		return &NoopMailer{from: config.Mail.From}
	}

	perSecond := config.MailPerSecond
	if perSecond <= 0 {
		perSecond = 1
	}

	return &SMTPMailer{
		dialer:  gomail.NewDialer(config.Mail.Host, config.Mail.Port, config.Mail.Username, config.Mail.Password),
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		from:    config.Mail.From,
	}
}

func (m *SMTPMailer) From() string {
	return m.from
}

func (m *SMTPMailer) Send(ctx context.Context, msg *gomail.Message) error {
	if err := m.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("mail throttle: %w", err)
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func (m *NoopMailer) From() string {
	return m.from
}

func (m *NoopMailer) Send(ctx context.Context, msg *gomail.Message) error {
	logrus.WithField("to", msg.GetHeader("To")).Debug("mail disabled, message dropped")
	return nil
}
