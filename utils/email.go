package utils

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

type EmailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func GetEmailConfig() *EmailConfig {
	return &EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

func SendEmail(to, subject, htmlBody string) error {
	config := GetEmailConfig()
	if config.Host == "" || config.Port == "" || config.From == "" {
		return fmt.Errorf("SMTP not configured")
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		config.From, to, subject)
	msg := []byte(headers + htmlBody)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	addr := config.Host + ":" + config.Port
	return smtp.SendMail(addr, auth, config.From, []string{to}, msg)
}

func firstName(name string) string {
	return strings.Split(name, " ")[0]
}

// SendOrderConfirmation emails the customer after admission. Fire-and-forget:
// failures are logged, never surfaced to the order flow.
func SendOrderConfirmation(email, name, orderNumber, date, slot string, total float64) {
	if email == "" {
		return
	}
	go func() {
		subject := fmt.Sprintf("Order Confirmed - %s", orderNumber)
		body := fmt.Sprintf(`<h2>Order Confirmed!</h2>
<p>Hi %s,</p>
<p>Your order <strong>%s</strong> is booked for <strong>%s at %s</strong>.</p>
<p>Order total: <strong>€%.2f</strong></p>
<p>We'll notify you when your order status changes.</p>
<p>La Trattoria</p>`, firstName(name), orderNumber, date, slot, total)
		if err := SendEmail(email, subject, body); err != nil {
			Logger.Warnf("Failed to send order confirmation to %s: %v", email, err)
		}
	}()
}

// SendOrderStatusUpdate emails the customer after a lifecycle transition.
func SendOrderStatusUpdate(email, name, orderNumber, status string) {
	if email == "" {
		return
	}
	go func() {
		subject := fmt.Sprintf("Order Update - %s", orderNumber)
		body := fmt.Sprintf(`<h2>Order Update</h2>
<p>Hi %s,</p>
<p>Your order <strong>%s</strong> is now: <strong>%s</strong></p>
<p>La Trattoria</p>`, firstName(name), orderNumber, status)
		if err := SendEmail(email, subject, body); err != nil {
			Logger.Warnf("Failed to send status update to %s: %v", email, err)
		}
	}()
}
