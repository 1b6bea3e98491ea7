// Package mail implements outbound email: SMTP delivery via gomail plus the
// HTML bodies used by the auth and demo-request flows. Delivery failures are
// returned to the caller; whether they are fatal depends on the flow (a
// verification email is part of signup, a demo notification is best-effort).
package mail

import (
	"bytes"
	"html/template"

	gomail "gopkg.in/gomail.v2"

	"github.com/morseverse/backend/internal/config"
	"github.com/morseverse/backend/internal/domain"
)

// Sender delivers email. Implementations must be safe for concurrent use.
type Sender interface {
	// Send delivers one HTML message to the given recipients.
	Send(to []string, subject, htmlBody string) error
}

// Mailer is the SMTP-backed Sender.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New constructs a Mailer from SMTP settings.
func New(cfg config.SMTPConfig) *Mailer {
	from := cfg.From
	if cfg.FromName != "" {
		from = cfg.FromName + " <" + cfg.From + ">"
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   from,
	}
}

// Send implements Sender.
func (m *Mailer) Send(to []string, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}

// --- Message bodies ---

var verificationTmpl = template.Must(template.New("verify").Parse(`
<html>
  <head><title>Email Verification</title></head>
  <body>
    <h2>Welcome to MORSE VERSE!</h2>
    <p>Thank you for creating an account with us. We're excited to have you
    on board. To start using your account, you just need to confirm your
    email address.</p>
    <p>Click the link below to verify your email:</p>
    <p><a href="{{.Link}}">Verify Email</a></p>
    <p>If you didn't create an account with MORSE VERSE, you can safely ignore this email.</p>
    <p>Thanks,</p>
    <p>Your friends at MORSE VERSE</p>
  </body>
</html>`))

var resetTmpl = template.Must(template.New("reset").Parse(`
<!DOCTYPE html>
<html>
  <head><title>Password Reset</title></head>
  <body>
    <h2>Hello,</h2>
    <p>You have requested a password reset for your MORSE VERSE account.
    No worries, it happens to the best of us.</p>
    <p>Click the link below to reset your password:</p>
    <p><a href="{{.Link}}">Reset my password</a></p>
    <p>If you did not request a password reset, please ignore this email or
    get in touch if you have questions.</p>
    <p>Thanks,</p>
    <p>Your friends at MORSE VERSE</p>
  </body>
</html>`))

var demoTmpl = template.Must(template.New("demo").Parse(`
<!DOCTYPE html>
<html>
  <head>
    <title>Demo booking</title>
    <style>
      body { font-family: Arial, sans-serif; }
      h1 { color: #333366; }
      p { color: #666; font-size: 16px; }
    </style>
  </head>
  <body>
    <h1>Hello,</h1>
    <ul>
      <li>Name and Last Name: {{.FirstName}} {{.LastName}}</li>
      <li>Email: {{.Email}}</li>
      <li>Website: {{.Website}}</li>
      <li>Country: {{.Country}}</li>
      <li>Community Scale: {{.CommunityScale}}</li>
      <li>Message: {{.Message}}</li>
      <li>Goals: {{.Goals}}</li>
    </ul>
  </body>
</html>`))

// VerificationBody renders the account-verification email for a link.
func VerificationBody(link string) (string, error) {
	return render(verificationTmpl, struct{ Link string }{link})
}

// ResetBody renders the password-reset email for a link.
func ResetBody(link string) (string, error) {
	return render(resetTmpl, struct{ Link string }{link})
}

// DemoBody renders the internal "book a demo" notification.
func DemoBody(d *domain.DemoRequest) (string, error) {
	return render(demoTmpl, d)
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
