package notify

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/cuemby/oretrace/pkg/config"
	"github.com/cuemby/oretrace/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestEmail(sent *[]sentMail, err error) *EmailNotifier {
	return newTestEmailDigest(sent, err, false)
}

func newTestEmailDigest(sent *[]sentMail, err error, digest bool) *EmailNotifier {
	cfg := config.Notify{
		EmailDigest:  digest,
		SMTPHost:     "smtp.example.com",
		SMTPPort:     587,
		SMTPUsername: "user",
		SMTPPassword: "secret",
		EmailFrom:    "alerts@example.com",
		EmailTo:      []string{"ops@example.com", "lab@example.com"},
	}
	return NewEmailNotifier(cfg).WithSendMail(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		*sent = append(*sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return err
	})
}

func TestEmailNotifier_Disabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Notify
	}{
		{"empty", config.Notify{}},
		{"no password", config.Notify{SMTPUsername: "u", EmailFrom: "f", EmailTo: []string{"t"}}},
		{"blank recipient", config.Notify{SMTPUsername: "u", SMTPPassword: "p", EmailFrom: "f", EmailTo: []string{""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			n := NewEmailNotifier(tt.cfg).WithSendMail(func(string, smtp.Auth, string, []string, []byte) error {
				called = true
				return nil
			})
			assert.False(t, n.Enabled())
			require.NoError(t, n.Send(context.Background(), critical("x")))
			require.NoError(t, n.SendSummary(context.Background()))
			assert.False(t, called)
		})
	}
}

func TestEmailNotifier_CriticalOnly(t *testing.T) {
	var sent []sentMail
	n := newTestEmail(&sent, nil)
	ctx := context.Background()

	require.NoError(t, n.Send(ctx, validate.Alert{Level: validate.LevelWarning, Rule: "unknown_driver", Message: "w"}))
	assert.Empty(t, sent)

	require.NoError(t, n.Send(ctx, validate.Alert{
		Level: validate.LevelCritical, Rule: "return_water_leak", Message: "leak <b>",
		Data: map[string]interface{}{"sample_code": "C 1404 10 14 RC"},
	}))
	require.Len(t, sent, 1)
	mail := sent[0]
	assert.Equal(t, "smtp.example.com:587", mail.addr)
	assert.Equal(t, "alerts@example.com", mail.from)
	assert.Equal(t, []string{"ops@example.com", "lab@example.com"}, mail.to)
	assert.Contains(t, mail.msg, "Subject: [CRITICAL] Mining Operations Alert - return_water_leak")
	assert.Contains(t, mail.msg, "Content-Type: text/html")
	assert.Contains(t, mail.msg, "#dc3545")
	assert.Contains(t, mail.msg, "leak &lt;b&gt;")
	assert.Contains(t, mail.msg, "C 1404 10 14 RC")
}

func TestEmailNotifier_DigestDisabledByDefault(t *testing.T) {
	var sent []sentMail
	n := newTestEmail(&sent, nil)
	ctx := context.Background()

	require.NoError(t, n.Send(ctx, validate.Alert{Level: validate.LevelWarning, Rule: "missing_receipt", Message: "no receipt"}))
	require.NoError(t, n.Send(ctx, critical("loss")))
	require.Len(t, sent, 1)

	require.NoError(t, n.SendSummary(ctx))
	assert.Len(t, sent, 1)
}

func TestEmailNotifier_Digest(t *testing.T) {
	var sent []sentMail
	n := newTestEmailDigest(&sent, nil, true)
	ctx := context.Background()

	require.NoError(t, n.Send(ctx, validate.Alert{Level: validate.LevelWarning, Rule: "missing_receipt", Message: "no receipt"}))
	require.NoError(t, n.Send(ctx, validate.Alert{Level: validate.LevelInfo, Rule: "note", Message: "fyi"}))
	require.NoError(t, n.Send(ctx, critical("loss")))
	require.Len(t, sent, 1)

	require.NoError(t, n.SendSummary(ctx))
	require.Len(t, sent, 2)
	digest := sent[1].msg
	assert.Contains(t, digest, "Subject: Mining Operations Digest - 3 alerts")
	assert.Contains(t, digest, "CRITICAL (1)")
	assert.Contains(t, digest, "WARNING (1)")
	assert.Contains(t, digest, "INFO (1)")
	assert.Less(t, strings.Index(digest, "CRITICAL (1)"), strings.Index(digest, "WARNING (1)"))

	// Digest clears the pending set
	require.NoError(t, n.SendSummary(ctx))
	assert.Len(t, sent, 2)
}

func TestEmailNotifier_TransportError(t *testing.T) {
	var sent []sentMail
	n := newTestEmail(&sent, errors.New("535 authentication failed"))

	err := n.Send(context.Background(), critical("loss"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
}
