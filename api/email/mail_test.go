package mail_test

import (
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mail "github.com/Adedunmol/stresspulse/api/email"
	"github.com/Adedunmol/stresspulse/config"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newMailer(sent *[]sentMail) *mail.Mailer {
	cfg := config.Mail{
		SMTPAddr:  "smtp.example.com",
		SMTPPort:  "587",
		FromEmail: "survey@example.com",
	}
	return mail.NewMailer(cfg).WithSender(func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		*sent = append(*sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	})
}

func TestSendTemplateEmail(t *testing.T) {
	var sent []sentMail
	mailer := newMailer(&sent)

	err := mailer.SendTemplateEmail(mail.Email{
		ToAddr:   "admin@example.com, ops@example.com",
		Subject:  "New survey response",
		Template: "response_received",
		Vars: map[string]interface{}{
			"ResponseID":     "r-1",
			"TotalQuestions": 3,
			"Gender":         "female",
		},
	})
	require.NoError(t, err)
	require.Len(t, sent, 1)

	got := sent[0]
	assert.Equal(t, "smtp.example.com:587", got.addr)
	assert.Equal(t, "survey@example.com", got.from)
	assert.Equal(t, []string{"admin@example.com", "ops@example.com"}, got.to)
	assert.Contains(t, got.msg, "Subject: New survey response\r\n")
	assert.Contains(t, got.msg, "r-1")
	assert.Contains(t, got.msg, "female")
	assert.False(t, strings.Contains(got.msg, "Occupation"), "empty fields are left out")
}

func TestSendTemplateEmailErrors(t *testing.T) {
	var sent []sentMail
	mailer := newMailer(&sent)

	err := mailer.SendTemplateEmail(mail.Email{ToAddr: "admin@example.com", Template: "missing"})
	assert.Error(t, err)

	err = mailer.SendTemplateEmail(mail.Email{ToAddr: " ", Template: "response_received"})
	assert.Error(t, err)

	assert.Empty(t, sent)
}
