package ports

import "context"

// Notifier sends outbound messages. Sends are fire-and-forget: callers log
// failures and never let them block a state transition.
type Notifier interface {
	SendSMS(ctx context.Context, to, message string) error
	SendEmail(ctx context.Context, to, subject, body string) error
}
