package mailer

import (
	"context"
	"errors"
	"io"

	"invoice-backend/internal/models"

	"gopkg.in/gomail.v2"
)

var ErrDisabled = errors.New("smtp is not configured")

// Mailer sends email over SMTP
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New returns a mailer; an empty host disables sending
func New(host string, port int, username, password, from string) *Mailer {
	m := &Mailer{from: from}
	if host == "" {
		return m
	}
	if m.from == "" {
		m.from = username
	}
	m.dialer = gomail.NewDialer(host, port, username, password)
	return m
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.dialer != nil
}

func (m *Mailer) Send(ctx context.Context, msg models.Email) error {
	if !m.Enabled() {
		return ErrDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.dialer.DialAndSend(m.build(msg))
}

func (m *Mailer) build(msg models.Email) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	if len(msg.Attachment) > 0 {
		data := msg.Attachment
		gm.Attach(msg.AttachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}
	return gm
}
