package mail

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/tartampluch/go-birthday-server/internal/config"
	"github.com/tartampluch/go-birthday-server/internal/i18n"
	"github.com/zalando/go-keyring"
	"gopkg.in/gomail.v2"
)

// Sender is the notification boundary: delivers the fixed birthday greeting
// to an address. Failures surface to the caller; there are no retries.
type Sender interface {
	SendGreeting(to, name string) error
}

// Dialer matches gomail's DialAndSend so tests can substitute a fake
// transport.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender implements Sender over an SMTP account.
type SMTPSender struct {
	dialer     Dialer
	from       string
	translator *i18n.Translator
}

// NewSMTPSender builds a sender from the SMTP configuration. When the
// password is absent from the environment it is looked up in the OS keyring
// under the application service name, which keeps the credential out of unit
// files and shell history on single-user deployments.
func NewSMTPSender(conf config.SMTP, translator *i18n.Translator) *SMTPSender {
	password := conf.Password
	if password == "" && conf.Username != "" {
		secret, err := keyring.Get(config.KeyringService, conf.Username)
		if err != nil {
			slog.Debug(config.MsgPassFail,
				config.LogKeyComponent, config.CompMail,
				config.LogKeyError, err,
			)
		} else {
			password = secret
			slog.Debug(config.MsgPassFromRing, config.LogKeyComponent, config.CompMail)
		}
	}

	from := conf.From
	if from == "" {
		from = conf.Username
	}

	return &SMTPSender{
		dialer:     gomail.NewDialer(conf.Host, conf.Port, conf.Username, password),
		from:       from,
		translator: translator,
	}
}

// NewSenderWithDialer wires an explicit transport. Used by tests.
func NewSenderWithDialer(dialer Dialer, from string, translator *i18n.Translator) *SMTPSender {
	return &SMTPSender{
		dialer:     dialer,
		from:       from,
		translator: translator,
	}
}

// SendGreeting implements Sender.
func (s *SMTPSender) SendGreeting(to, name string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", s.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", s.translator.MailSubject())
	message.SetBody("text/plain", s.translator.MailBody(name))

	if err := s.dialer.DialAndSend(message); err != nil {
		slog.Error(config.MsgMailFailed,
			config.LogKeyComponent, config.CompMail,
			config.LogKeyEmail, to,
			config.LogKeyError, err,
		)
		return errors.WithStack(err)
	}

	slog.Info(config.MsgMailSent,
		config.LogKeyComponent, config.CompMail,
		config.LogKeyEmail, to,
	)

	return nil
}

var _ Sender = &SMTPSender{}
