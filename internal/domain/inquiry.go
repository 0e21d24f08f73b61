package domain

import "time"

// InquiryStatus enumerates lifecycle states for inquiries.
type InquiryStatus string

const (
	StatusNew        InquiryStatus = "New"
	StatusInProgress InquiryStatus = "InProgress"
	StatusOnHold     InquiryStatus = "On-Hold"
	StatusCompleted  InquiryStatus = "Completed"
)

// ParseInquiryStatus validates a status literal against the four known values.
func ParseInquiryStatus(raw string) (InquiryStatus, bool) {
	switch InquiryStatus(raw) {
	case StatusNew, StatusInProgress, StatusOnHold, StatusCompleted:
		return InquiryStatus(raw), true
	}
	return "", false
}

// ActiveStatuses are the states that count toward a staff member's workload.
// InProgress is excluded on purpose: an engaged staffer should not be penalized
// for actively working a case, and Completed no longer represents load.
var ActiveStatuses = []InquiryStatus{StatusNew, StatusOnHold}

// Classification vocabularies. The classifier must return values from these
// sets; anything else is replaced with the defaults.
const (
	CategoryBilling   = "Billing"
	CategoryTechnical = "Technical"
	CategoryGeneral   = "General"
	CategoryAccount   = "Account"

	UrgencyLow    = "Low"
	UrgencyMedium = "Medium"
	UrgencyHigh   = "High"
)

// Inquiry is the aggregate for customer support cases.
type Inquiry struct {
	ID             int64
	Title          string
	Content        string
	CustomerEmail  string
	CustomerName   *string
	Status         InquiryStatus
	Category       string
	Urgency        string
	AssignedUserID *int64
	CreatedAt      time.Time
}
