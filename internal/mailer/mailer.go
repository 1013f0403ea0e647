package mailer

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/tohidahmed666-design/AssetMGMT/pkg/models"
)

// Sender delivers a composed message. Satisfied by gomail's Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends best-effort notifications. Every send is attempted once;
// a failure is logged and swallowed, never surfaced to the caller.
type Mailer struct {
	sender Sender
	from   string
	log    *zap.Logger
}

func NewMailer(host string, port int, user, pass, from string, log *zap.Logger) *Mailer {
	return &Mailer{
		sender: gomail.NewDialer(host, port, user, pass),
		from:   from,
		log:    log,
	}
}

// NewMailerWithSender is used by tests to swap the SMTP dialer out.
func NewMailerWithSender(sender Sender, from string, log *zap.Logger) *Mailer {
	return &Mailer{
		sender: sender,
		from:   from,
		log:    log,
	}
}

// SendIssueNotice notifies issuer and recipient that an asset went out.
func (m *Mailer) SendIssueNotice(asset *models.Asset, issued *models.IssuedAsset) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)

	recipients := []string{issued.ReceiverEmail}
	if issued.IssuerEmail != nil && *issued.IssuerEmail != "" {
		recipients = append(recipients, *issued.IssuerEmail)
	}
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", fmt.Sprintf("Asset Issued: %s", issued.AssetNumber))

	body := fmt.Sprintf(
		"<h3>Asset Issued Notification</h3>"+
			"<p><strong>Asset:</strong> %s - %s %s</p>"+
			"<p><strong>Issued To:</strong> %s</p>"+
			"<p><strong>Quantity:</strong> %d</p>"+
			"<p><strong>Date:</strong> %s</p>",
		issued.AssetNumber, deref(asset.Brand), deref(asset.Model),
		issued.IssuedTo, asset.Quantity,
		issued.IssuedAt.Format(time.RFC1123),
	)
	if issued.Notes != nil && *issued.Notes != "" {
		body += fmt.Sprintf("<p><strong>Notes:</strong> %s</p>", *issued.Notes)
	}
	msg.SetBody("text/html", body)

	m.send(msg, "issue notice", issued.AssetNumber)
}

// SendReceiveNotice notifies notifyEmail that an asset came back.
func (m *Mailer) SendReceiveNotice(asset *models.Asset, issued *models.IssuedAsset, notifyEmail string) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", notifyEmail)
	msg.SetHeader("Subject", fmt.Sprintf("Asset Received: %s", issued.AssetNumber))

	body := fmt.Sprintf(
		"<h3>Asset Received Notification</h3>"+
			"<p><strong>Asset:</strong> %s - %s %s</p>"+
			"<p><strong>Received By:</strong> %s</p>"+
			"<p><strong>Date:</strong> %s</p>",
		issued.AssetNumber, deref(asset.Brand), deref(asset.Model),
		deref(issued.ReceivedBy),
		time.Now().Format(time.RFC1123),
	)
	if issued.Notes != nil && *issued.Notes != "" {
		body += fmt.Sprintf("<p><strong>Notes:</strong> %s</p>", *issued.Notes)
	}
	msg.SetBody("text/html", body)

	m.send(msg, "receive notice", issued.AssetNumber)
}

// SendOtp mails a one-time code with its expiry window.
func (m *Mailer) SendOtp(email, code string, expiry time.Duration) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Password Reset OTP")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Your OTP is %s. It expires in %d minutes.",
		code, int(expiry.Minutes()),
	))

	m.send(msg, "otp", email)
}

// SendContactMessage forwards a contact-form submission to the developer
// inbox.
func (m *Mailer) SendContactMessage(contact *models.Contact, devEmail string) {
	if devEmail == "" {
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("Reply-To", contact.Email)
	msg.SetHeader("To", devEmail)
	msg.SetHeader("Subject", fmt.Sprintf("[Contact Dev] %s", contact.Subject))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Name: %s\nEmail: %s\n\nMessage:\n%s",
		contact.Name, contact.Email, contact.Message,
	))

	m.send(msg, "contact message", contact.Email)
}

func (m *Mailer) send(msg *gomail.Message, kind, target string) {
	if err := m.sender.DialAndSend(msg); err != nil {
		m.log.Error("Email sending failed",
			zap.String("kind", kind),
			zap.String("target", target),
			zap.Error(err),
		)
		return
	}

	m.log.Info("Email sent", zap.String("kind", kind), zap.String("target", target))
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
