// Package tools sends operator alerts and loads local secrets.
package tools

import (
	"fmt"
	"net"
	"net/smtp"
	"sync"
	"time"

	"github.com/jordan-wright/email"

	"github.com/anyswap/XRPL-Custody/log"
)

// DefaultMinAlertInterval is the default quiet period between alerts
const DefaultMinAlertInterval = 30 * time.Minute

// Mailer sends plain text mail through one smtp server
type Mailer struct {
	serverURL    string
	auth         smtp.Auth
	fromWithName string
	to           []string
	cc           []string

	send func(e *email.Email, addr string, a smtp.Auth) error
}

// NewMailer creates a mailer
func NewMailer(server string, port int, from, name, password string, to, cc []string) *Mailer {
	fromWithName := from
	if name != "" {
		fromWithName = fmt.Sprintf("%s <%s>", name, from)
	}
	return &Mailer{
		serverURL:    net.JoinHostPort(server, fmt.Sprintf("%d", port)),
		auth:         smtp.PlainAuth("", from, password, server),
		fromWithName: fromWithName,
		to:           to,
		cc:           cc,
		send: func(e *email.Email, addr string, a smtp.Auth) error {
			return e.Send(addr, a)
		},
	}
}

// SendEmail send email
func (m *Mailer) SendEmail(subject, content string) error {
	e := email.NewEmail()
	e.From = m.fromWithName
	e.To = m.to
	e.Cc = m.cc
	e.Subject = subject
	e.Text = []byte(content)
	return m.send(e, m.serverURL, m.auth)
}

// Alerter mails alerts at most once per interval per topic
type Alerter struct {
	mailer      *Mailer
	identifier  string
	minInterval time.Duration

	mu       sync.Mutex
	prevSent map[string]time.Time
	now      func() time.Time
}

// NewAlerter creates an alerter. A nil mailer makes every alert a log line only.
func NewAlerter(mailer *Mailer, identifier string, minInterval time.Duration) *Alerter {
	if minInterval <= 0 {
		minInterval = DefaultMinAlertInterval
	}
	return &Alerter{
		mailer:      mailer,
		identifier:  identifier,
		minInterval: minInterval,
		prevSent:    make(map[string]time.Time),
		now:         time.Now,
	}
}

// Alert sends an alert unless the topic alerted within the interval.
// It reports whether a mail was sent.
func (a *Alerter) Alert(topic, subject, content string) bool {
	log.Warn(fmt.Sprintf("[%v] %v", topic, subject), "content", content)
	if a == nil || a.mailer == nil {
		return false
	}
	a.mu.Lock()
	now := a.now()
	if prev, ok := a.prevSent[topic]; ok && now.Sub(prev) < a.minInterval {
		a.mu.Unlock()
		return false // too frequently
	}
	a.prevSent[topic] = now
	a.mu.Unlock()

	if a.identifier != "" {
		subject = fmt.Sprintf("[%v] %v", a.identifier, subject)
	}
	err := a.mailer.SendEmail(subject, content)
	if err != nil {
		log.Error(fmt.Sprintf("[%v] send email failed", topic), "subject", subject, "err", err)
		return false
	}
	log.Info(fmt.Sprintf("[%v] send email success", topic), "subject", subject)
	return true
}
