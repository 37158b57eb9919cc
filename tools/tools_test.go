package tools

import (
	"errors"
	"io/ioutil"
	"net/smtp"
	"path/filepath"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	addr    string
	from    string
	to      []string
	subject string
	text    string
}

func testMailer(sent *[]sentMail, failWith error) *Mailer {
	m := NewMailer("smtp.example.com", 587, "ops@example.com", "Custody", "pw", []string{"oncall@example.com"}, nil)
	m.send = func(e *email.Email, addr string, a smtp.Auth) error {
		if failWith != nil {
			return failWith
		}
		*sent = append(*sent, sentMail{addr: addr, from: e.From, to: e.To, subject: e.Subject, text: string(e.Text)})
		return nil
	}
	return m
}

func TestMailerSendEmail(t *testing.T) {
	var sent []sentMail
	m := testMailer(&sent, nil)
	require.NoError(t, m.SendEmail("subject", "body"))
	require.Len(t, sent, 1)
	assert.Equal(t, "smtp.example.com:587", sent[0].addr)
	assert.Equal(t, "Custody <ops@example.com>", sent[0].from)
	assert.Equal(t, []string{"oncall@example.com"}, sent[0].to)
	assert.Equal(t, "body", sent[0].text)
}

func TestAlerterThrottlesPerTopic(t *testing.T) {
	var sent []sentMail
	a := NewAlerter(testMailer(&sent, nil), "custody", time.Minute)
	now := time.Unix(1700000000, 0)
	a.now = func() time.Time { return now }

	assert.True(t, a.Alert("unknown", "tx unknown", "hash A"))
	assert.False(t, a.Alert("unknown", "tx unknown", "hash B"))
	assert.True(t, a.Alert("reconcile", "ambiguous", "offer"))

	now = now.Add(time.Minute)
	assert.True(t, a.Alert("unknown", "tx unknown", "hash C"))

	require.Len(t, sent, 3)
	assert.Equal(t, "[custody] tx unknown", sent[0].subject)
}

func TestAlerterWithoutMailer(t *testing.T) {
	var a *Alerter
	assert.False(t, a.Alert("topic", "subject", "content"))
	assert.False(t, NewAlerter(nil, "", 0).Alert("topic", "subject", "content"))
}

func TestAlerterSendFailure(t *testing.T) {
	var sent []sentMail
	a := NewAlerter(testMailer(&sent, errors.New("smtp down")), "", time.Minute)
	assert.False(t, a.Alert("unknown", "subject", "content"))
}

func TestLoadPassphrase(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "pass")
	require.NoError(t, ioutil.WriteFile(file, []byte("  secret\n"), 0600))
	pass, err := LoadPassphrase(file)
	require.NoError(t, err)
	assert.Equal(t, "secret", pass)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, ioutil.WriteFile(empty, []byte("\n"), 0600))
	_, err = LoadPassphrase(empty)
	assert.Error(t, err)

	_, err = LoadPassphrase(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
