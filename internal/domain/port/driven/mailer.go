package driven

import "context"

// Mailer sends the confirmation email that follows a successful submission.
type Mailer interface {
	SendConfirmation(ctx context.Context, to, company string) error
}
