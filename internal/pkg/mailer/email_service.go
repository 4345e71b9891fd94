// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWelcome(toEmail, fullName string, credits int) error
	SendPurchaseReceipt(toEmail, fullName, invoiceNumber string, amount int64, credits int) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	frontendURL := os.Getenv("FRONTEND_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) SendWelcome(toEmail, fullName string, credits int) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Welcome to PromptPix")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome, %s!</h2>
			<p>Your account is ready and comes with <strong>%d free credits</strong> to get you started.</p>
			<p>Head over to the app and generate your first image.</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open PromptPix</a>
		</div>
	`, fullName, credits, s.frontendURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send welcome email to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Welcome email sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendPurchaseReceipt(toEmail, fullName, invoiceNumber string, amount int64, credits int) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Payment Received - %s", invoiceNumber))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Thanks for your purchase, %s!</h2>
			<p>We received your payment and your credits are already in your account.</p>
			<table style="border-collapse: collapse; margin: 16px 0;">
				<tr><td style="padding: 4px 12px 4px 0;">Invoice</td><td><strong>%s</strong></td></tr>
				<tr><td style="padding: 4px 12px 4px 0;">Amount</td><td><strong>Rp %d</strong></td></tr>
				<tr><td style="padding: 4px 12px 4px 0;">Credits added</td><td><strong>%d</strong></td></tr>
			</table>
			<a href="%s/app/transactions" style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">View Transaction</a>
		</div>
	`, fullName, invoiceNumber, amount, credits, s.frontendURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send receipt for %s to %s: %v\n", invoiceNumber, toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Receipt for %s sent to %s\n", invoiceNumber, toEmail)
	return nil
}
