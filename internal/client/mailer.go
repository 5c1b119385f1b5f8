package client

import (
	"context"
	"gopkg.in/gomail.v2"
)

// Mailer отправляет письма через SMTP-сервер.
type Mailer struct {
	from    string
	to      string
	deliver func(m ...*gomail.Message) error
}

func NewMailer(host string, port int, username, password, from, to string) *Mailer {
	return &Mailer{
		from:    from,
		to:      to,
		deliver: gomail.NewDialer(host, port, username, password).DialAndSend,
	}
}

// Send отправляет текстовое письмо с темой subject на адрес получателя уведомлений.
func (m *Mailer) Send(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.deliver(msg)
}
