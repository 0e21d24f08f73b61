package mail

import "context"

// RawMessage is a normalized inbound email as fetched from the mailbox.
// From carries the raw header value; callers parse name/address out of it.
type RawMessage struct {
	From    string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers outbound mail. Fire-and-forget from the caller's
// perspective: failures are surfaced but never roll back persisted state.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Fetcher retrieves unread messages from the support mailbox.
type Fetcher interface {
	FetchUnread(ctx context.Context, limit int) ([]RawMessage, error)
}
