// Package notify delivers the rendered alert over SMTP.
package notify

import (
	"gopkg.in/gomail.v2"
)

const (
	smtpHost = "smtp.gmail.com"
	smtpPort = 465
)

// Mailer sends alert mail through Gmail's SSL endpoint using an
// app-scoped password. A Mailer missing either credential is usable but
// unconfigured; callers are expected to skip the send in that case.
type Mailer struct {
	user        string
	appPassword string
	recipient   string
}

func NewMailer(user, appPassword, recipient string) *Mailer {
	return &Mailer{
		user:        user,
		appPassword: appPassword,
		recipient:   recipient,
	}
}

// Configured reports whether both the account and the app password are
// present.
func (m *Mailer) Configured() bool {
	return m.user != "" && m.appPassword != ""
}

// Send delivers a single HTML message. Transport and authentication
// failures propagate to the caller; there are no retries.
func (m *Mailer) Send(subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.user)
	msg.SetHeader("To", m.recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(smtpHost, smtpPort, m.user, m.appPassword)
	dialer.SSL = true
	return dialer.DialAndSend(msg)
}

// Subject builds the alert subject line from the display timestamp.
func Subject(checkedAt string) string {
	return "Mortgage Rate Alert - " + checkedAt
}
