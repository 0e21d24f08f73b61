package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventNewInquiry     EventType = "new_inquiry"
	EventInquiryUpdated EventType = "inquiry_updated"
)

// Event is the envelope services publish on the dispatcher.
type Event struct {
	ID        string
	Type      EventType
	Timestamp time.Time
	Payload   any
}

// NewInquiryPayload is the wire payload broadcast when an inquiry is created.
// Field order and tags are part of the client contract; do not reorder.
type NewInquiryPayload struct {
	Event     string `json:"event"`
	InquiryID int64  `json:"inquiry_id"`
}

// InquiryUpdatedPayload is the wire payload broadcast on status or assignment
// changes, including reply-triggered completion.
type InquiryUpdatedPayload struct {
	Event          string `json:"event"`
	InquiryID      int64  `json:"inquiry_id"`
	Status         string `json:"status"`
	AssignedUserID *int64 `json:"assigned_user_id"`
}

// NewInquiry builds the creation payload.
func NewInquiry(inquiryID int64) NewInquiryPayload {
	return NewInquiryPayload{Event: string(EventNewInquiry), InquiryID: inquiryID}
}

// InquiryUpdated builds the update payload from canonical persisted values.
func InquiryUpdated(inquiryID int64, status string, assignedUserID *int64) InquiryUpdatedPayload {
	return InquiryUpdatedPayload{
		Event:          string(EventInquiryUpdated),
		InquiryID:      inquiryID,
		Status:         status,
		AssignedUserID: assignedUserID,
	}
}
