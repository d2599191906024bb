// Package managers handles the sending of transactional emails for account activation
// and password reset using the Mailgun service and the Hermes package for email formatting.
package managers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	log "github.com/sirupsen/logrus"
)

// MailMgr is an interface that outlines the contract for email management.
// Delivery is best-effort: callers log failures and never fail the
// triggering account operation on a dispatch error.
type MailMgr interface {
	SendActivationMail(email, fullName, activationLink string) error
	SendResetPasswordMail(email, fullName, resetLink string) error
	SendConfirmationMail(email, fullName string) error
}

// MailManager is a concrete implementation of the MailMgr interface.
// It uses the Mailgun service for sending emails and the Hermes package for formatting emails.
type MailManager struct {
	Hermes  *hermes.Hermes
	Mailgun *mailgun.MailgunImpl
}

var from = "Green Shop <support@greenshop.vn>"
var environment string

// SendActivationMail sends an activation email carrying the activation link.
// The token never appears anywhere but inside this mail.
func (mm *MailManager) SendActivationMail(email, fullName, activationLink string) error {
	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: fullName,
			Intros: []string{
				"Welcome to Green Shop! We're very excited to have you on board.",
				"Your account has been created but still needs to be activated.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "To activate your account, please click the button below:",
					Button: hermes.Button{
						Color: "#22BC66",
						Text:  "Activate your account",
						Link:  activationLink,
					},
				},
			},
			Outros: []string{
				"If you did not sign up, you can safely ignore this email.",
			},
		},
	}

	return mm.send(email, "Activate your account", mailBody)
}

// SendResetPasswordMail sends a password reset email carrying the reset link.
func (mm *MailManager) SendResetPasswordMail(email, fullName, resetLink string) error {
	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: fullName,
			Intros: []string{
				"We received a request to reset the password of your Green Shop account.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "To choose a new password, please click the button below. The link expires after a few hours:",
					Button: hermes.Button{
						Color: "#22BC66",
						Text:  "Reset your password",
						Link:  resetLink,
					},
				},
			},
			Outros: []string{
				"If you did not request a password reset, you can safely ignore this email.",
			},
		},
	}

	return mm.send(email, "Reset your password", mailBody)
}

// SendConfirmationMail sends a confirmation email after successful activation.
func (mm *MailManager) SendConfirmationMail(email, fullName string) error {
	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: fullName,
			Intros: []string{
				"Your account has been successfully activated!",
			},
			Outros: []string{
				"Have fun shopping at Green Shop!",
			},
		},
	}

	return mm.send(email, "Account successfully activated", mailBody)
}

func (mm *MailManager) send(email, subject string, mailBody hermes.Email) error {
	if environment != "production" {
		log.Info("Skipping mail in development mode: ", subject)
		return nil
	}

	emailBody, err := mm.Hermes.GenerateHTML(mailBody)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(2*time.Second))
	defer cancel()

	message := mm.Mailgun.NewMessage(from, subject, "", email)
	message.SetHtml(emailBody)
	if _, _, err = mm.Mailgun.Send(ctx, message); err != nil {
		log.Warning(fmt.Sprintf("Error sending mail %q: %s", subject, err.Error()))
		return err
	}
	log.Debug("Mail sent to ", email)

	return nil
}

// NewMailManager initializes a new MailManager instance with configured Mailgun and Hermes settings.
// It also checks the runtime environment to determine if emails should be sent.
func NewMailManager() MailMgr {
	log.Info("Initializing mail manager")
	environment = os.Getenv("ENVIRONMENT")

	if environment != "production" {
		log.Println("Running in development mode, email will not be sent to users")
	}

	apiKey := os.Getenv("MAILGUN_API_KEY")
	domain := os.Getenv("MAILGUN_DOMAIN")
	if domain == "" {
		domain = "mail.greenshop.vn"
	}
	mailgunInstance := mailgun.NewMailgun(domain, apiKey)

	mm := &MailManager{
		Hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name:      "Green Shop",
				Link:      "https://greenshop.vn/",
				Copyright: "© Green Shop",
			},
		},
		Mailgun: mailgunInstance,
	}
	log.Info("Initialized mail manager")
	return mm
}
