// Package mailer abstracts outbound email so callers observe send outcomes
// and tests can substitute a stub.
package mailer

import (
	"io"

	"gopkg.in/gomail.v2"
)

// Attachment is an in-memory file attached to a message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Mailer sends a message and reports whether delivery was handed off.
type Mailer interface {
	Send(to []string, subject, body string, attachments ...Attachment) error
}

// SMTP is the gomail-backed Mailer used in production.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(host string, port int, username, password, from string) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *SMTP) Send(to []string, subject, body string, attachments ...Attachment) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	for _, a := range attachments {
		content := a.Content
		m.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}
	return s.dialer.DialAndSend(m)
}
