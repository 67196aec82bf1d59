package mail

import (
	"context"
	"slices"

	"blogauth/config"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"

	gomail "github.com/wneessen/go-mail"
)

const defaultSMTPPort = 587

// Send stages whose non-temporary failures mean the relay refused the message.
var rejectedReasons = []gomail.SendErrReason{
	gomail.ErrGetRcpts,
	gomail.ErrSMTPMailFrom,
	gomail.ErrSMTPRcptTo,
}

type sendFunc func(ctx context.Context, msg *gomail.Msg) error

// SMTPMailer sends plain-text mail through one SMTP relay. Each Send dials
// its own connection so concurrent pushes do not share a session.
type SMTPMailer struct {
	from    string
	host    string
	port    int
	options []gomail.Option
	send    sendFunc
}

func NewSMTPMailer(from string, cfg config.SMTPConfig) (*SMTPMailer, error) {
	if err := gomail.NewMsg().From(from); err != nil {
		return nil, errors.Wrapf(err, "invalid mail.from %q", from)
	}

	port := cfg.Port
	if port == 0 {
		port = defaultSMTPPort
	}

	options := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Timeout > 0 {
		options = append(options, gomail.WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		options = append(options,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	// Fail at startup on options the client rejects.
	if _, err := gomail.NewClient(cfg.Host, options...); err != nil {
		return nil, errors.Wrap(err, "failed to configure smtp client")
	}

	m := &SMTPMailer{
		from:    from,
		host:    cfg.Host,
		port:    port,
		options: options,
	}
	m.send = m.dialAndSend

	return m, nil
}

func (m *SMTPMailer) Send(ctx context.Context, mail *service.Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := m.buildMessage(mail)
	if err != nil {
		return err
	}

	if err := m.send(ctx, msg); err != nil {
		if isRejected(err) {
			return errors.Wrap(service.ErrMailRejected, err.Error())
		}

		return errors.Wrap(err, "smtp send failed")
	}

	return nil
}

func (m *SMTPMailer) buildMessage(mail *service.Mail) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, errors.Wrap(err, "invalid sender address")
	}
	// A recipient that does not parse will never be deliverable.
	if err := msg.To(mail.To); err != nil {
		return nil, errors.Wrap(service.ErrMailRejected, err.Error())
	}
	msg.Subject(mail.Subject)
	msg.SetDate()
	msg.SetBodyString(gomail.TypeTextPlain, mail.Body)

	return msg, nil
}

func (m *SMTPMailer) dialAndSend(ctx context.Context, msg *gomail.Msg) error {
	client, err := gomail.NewClient(m.host, m.options...)
	if err != nil {
		return errors.Wrap(err, "failed to create smtp client")
	}

	return client.DialAndSendWithContext(ctx, msg)
}

// isRejected reports a permanent (5xx) refusal of the sender or recipient.
// Dial failures, timeouts and 4xx replies stay retryable.
func isRejected(err error) bool {
	sendErr, ok := errors.Find[*gomail.SendError](err)
	if !ok {
		return false
	}

	return !sendErr.IsTemp() && slices.Contains(rejectedReasons, sendErr.Reason)
}
