package delivery

// EmailMessage is one outbound email.
type EmailMessage struct {
	To      []string
	Subject string
	Body    string
	Link    string
}

// PushMessage is one outbound push, addressed by portal user ids. The
// push gateway owns the mapping to device tokens.
type PushMessage struct {
	UserIDs []string
	Title   string
	Message string
	Link    string
}
