package dto

import (
	"time"

	"github.com/supportdesk/inquiry-service/internal/domain"
)

// CreateInquiryRequest is the public submission payload.
type CreateInquiryRequest struct {
	Title         string  `json:"title" validate:"required"`
	Content       string  `json:"content" validate:"required"`
	CustomerEmail string  `json:"customer_email" validate:"required,email"`
	CustomerName  *string `json:"customer_name"`
}

// UpdateInquiryRequest is a partial update; absent fields are untouched and
// an explicit null assigned_user_id clears the assignment.
type UpdateInquiryRequest struct {
	Status         *string       `json:"status"`
	AssignedUserID OptionalInt64 `json:"assigned_user_id"`
}

// ReplyRequest carries a staff reply.
type ReplyRequest struct {
	Content string `json:"content" validate:"required"`
}

// InquiryResponse is the serialized inquiry entity.
type InquiryResponse struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	CustomerEmail  string    `json:"customer_email"`
	CustomerName   *string   `json:"customer_name"`
	Status         string    `json:"status"`
	Category       string    `json:"category"`
	Urgency        string    `json:"urgency"`
	AssignedUserID *int64    `json:"assigned_user_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// MessageResponse is a serialized thread message.
type MessageResponse struct {
	ID         int64     `json:"id"`
	InquiryID  int64     `json:"inquiry_id"`
	Content    string    `json:"content"`
	SenderType string    `json:"sender_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// InquiryDetailResponse bundles an inquiry with its thread.
type InquiryDetailResponse struct {
	InquiryResponse
	Messages []MessageResponse `json:"messages"`
}

// FromInquiry maps a domain inquiry to its response shape.
func FromInquiry(inquiry *domain.Inquiry) InquiryResponse {
	return InquiryResponse{
		ID:             inquiry.ID,
		Title:          inquiry.Title,
		Content:        inquiry.Content,
		CustomerEmail:  inquiry.CustomerEmail,
		CustomerName:   inquiry.CustomerName,
		Status:         string(inquiry.Status),
		Category:       inquiry.Category,
		Urgency:        inquiry.Urgency,
		AssignedUserID: inquiry.AssignedUserID,
		CreatedAt:      inquiry.CreatedAt,
	}
}

// FromMessage maps a domain message to its response shape.
func FromMessage(msg *domain.Message) MessageResponse {
	return MessageResponse{
		ID:         msg.ID,
		InquiryID:  msg.InquiryID,
		Content:    msg.Content,
		SenderType: string(msg.SenderType),
		CreatedAt:  msg.CreatedAt,
	}
}
