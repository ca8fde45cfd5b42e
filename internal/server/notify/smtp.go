package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

const verificationSubject = "Verify your DocDrop account"

var verificationTemplate = template.Must(template.New("verification").Parse(
	`<p>Hello,</p>
<p>Confirm your DocDrop account by opening the link below. It expires in {{.TTL}}.</p>
<p><a href="{{.URL}}">{{.URL}}</a></p>
<p>If you did not sign up, ignore this message.</p>
`))

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier mails verification links through an SMTP relay.
type SMTPNotifier struct {
	sender mailSender
	from   string
	ttl    string
}

// NewSMTPNotifier dials host:port with the given credentials for every
// message. ttl is only shown to the recipient.
func NewSMTPNotifier(host string, port int, username, password, from, ttl string) *SMTPNotifier {
	return &SMTPNotifier{
		sender: gomail.NewDialer(host, port, username, password),
		from:   from,
		ttl:    ttl,
	}
}

func (n *SMTPNotifier) SendVerification(ctx context.Context, email, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := verificationTemplate.Execute(&body, map[string]string{"URL": url, "TTL": n.ttl}); err != nil {
		return fmt.Errorf("render verification mail: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", verificationSubject)
	m.SetBody("text/html", body.String())

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}
	return nil
}
