package delivery

// Provider delivers notifications to external channels. Any error it
// returns is best-effort information for logging: callers must never
// let a delivery failure unwind business state.
type Provider interface {
	// SendEmail delivers one email message.
	SendEmail(msg *EmailMessage) error

	// SendPush forwards one push message to the push gateway.
	SendPush(msg *PushMessage) error

	// Close releases provider resources.
	Close() error
}
