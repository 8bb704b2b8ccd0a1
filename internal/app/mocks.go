package app

import "itad_backend/internal/delivery"

// NoopProvider is used when SMTP is not configured. In-app
// notifications still work; external channels silently do nothing.
type NoopProvider struct{}

func (p *NoopProvider) SendEmail(msg *delivery.EmailMessage) error { return nil }
func (p *NoopProvider) SendPush(msg *delivery.PushMessage) error   { return nil }
func (p *NoopProvider) Close() error                               { return nil }
