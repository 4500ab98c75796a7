// Package mail defines the outbound mail contract used when filing records
// requests, plus the Gmail-backed implementation.
package mail

import "context"

// Mailer is the delivery and labeling boundary. Authentication is assumed
// to be established before any method is called.
type Mailer interface {
	// Send delivers the message and returns the provider's message id.
	Send(ctx context.Context, msg *Message) (string, error)
	// ListLabels returns the account's labels as a name -> id mapping.
	ListLabels(ctx context.Context) (map[string]string, error)
	// CreateLabel creates a label and returns its id.
	CreateLabel(ctx context.Context, name string) (string, error)
	// ApplyLabels attaches the given label ids to a sent message.
	ApplyLabels(ctx context.Context, messageID string, labelIDs []string) error
}
