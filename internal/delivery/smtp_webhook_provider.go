package delivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

type PushConfig struct {
	WebhookURL string
	APIKey     string
	Timeout    time.Duration
}

// SMTPWebhookProvider sends email over SMTP and pushes through an
// HTTP webhook gateway.
type SMTPWebhookProvider struct {
	smtp   *SMTPConfig
	push   *PushConfig
	dialer *gomail.Dialer
	client *http.Client
}

func NewSMTPWebhookProvider(smtp *SMTPConfig, push *PushConfig) *SMTPWebhookProvider {
	timeout := push.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &SMTPWebhookProvider{
		smtp:   smtp,
		push:   push,
		dialer: gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password),
		client: &http.Client{Timeout: timeout},
	}
}

func (p *SMTPWebhookProvider) SendEmail(msg *EmailMessage) error {
	if p.smtp.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("email message has no recipients")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.smtp.FromEmail, p.smtp.FromName)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)

	body := msg.Body
	if msg.Link != "" {
		body += "\n\n" + msg.Link
	}
	m.SetBody("text/plain", body)

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (p *SMTPWebhookProvider) SendPush(msg *PushMessage) error {
	if p.push.WebhookURL == "" {
		return fmt.Errorf("push webhook not configured")
	}
	if len(msg.UserIDs) == 0 {
		return fmt.Errorf("push message has no recipients")
	}

	payload, err := json.Marshal(map[string]interface{}{
		"user_ids": msg.UserIDs,
		"title":    msg.Title,
		"message":  msg.Message,
		"link":     msg.Link,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, p.push.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.push.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.push.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("push gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}
	return nil
}

func (p *SMTPWebhookProvider) Close() error {
	return nil
}
