package smtp

import (
	"errors"
	netsmtp "net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage_Headers(t *testing.T) {
	msg := string(buildMessage("noreply@campus.edu", "s@u.edu", "Verification code", "<p>483921</p>"))

	assert.True(t, strings.HasPrefix(msg, "From: noreply@campus.edu\r\nTo: s@u.edu\r\n"))
	assert.Contains(t, msg, "Subject: Verification code\r\n")
	assert.Contains(t, msg, "Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n<p>483921</p>")
}

func TestBuildMessage_EncodesNonASCIISubject(t *testing.T) {
	msg := string(buildMessage("a@b", "c@d", "邮箱验证码", "x"))
	assert.Contains(t, msg, "Subject: =?utf-8?q?")
}

func TestSendEmail_UsesAuthOnlyWithUsername(t *testing.T) {
	var gotAuth netsmtp.Auth
	var gotAddr string
	m := &mailer{host: "mail.local", port: "25", from: "noreply@campus.edu",
		send: func(addr string, a netsmtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotAuth = addr, a
			return nil
		}}

	require.NoError(t, m.SendEmail("s@u.edu", "s", "b"))
	assert.Equal(t, "mail.local:25", gotAddr)
	assert.Nil(t, gotAuth)

	m.username, m.password = "user", "pass"
	require.NoError(t, m.SendEmail("s@u.edu", "s", "b"))
	assert.NotNil(t, gotAuth)
}

func TestSendEmail_RejectsHeaderInjection(t *testing.T) {
	m := &mailer{send: func(string, netsmtp.Auth, string, []string, []byte) error { return nil }}
	assert.Error(t, m.SendEmail("s@u.edu\r\nBcc: x@y.z", "s", "b"))
}

func TestSendEmail_WrapsTransportError(t *testing.T) {
	boom := errors.New("connection refused")
	m := &mailer{host: "h", port: "1", send: func(string, netsmtp.Auth, string, []string, []byte) error { return boom }}
	err := m.SendEmail("s@u.edu", "s", "b")
	assert.ErrorIs(t, err, boom)
}
