package domain

import "time"

// MessageSenderType indicates who authored a message on an inquiry thread.
type MessageSenderType string

const (
	SenderCustomer MessageSenderType = "Customer"
	SenderStaff    MessageSenderType = "Staff"
)

// Message is a single entry in an inquiry's conversation thread. Messages are
// owned by their inquiry and removed with it (ON DELETE CASCADE).
type Message struct {
	ID         int64
	InquiryID  int64
	Content    string
	SenderType MessageSenderType
	CreatedAt  time.Time
}
