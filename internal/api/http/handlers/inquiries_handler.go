package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/supportdesk/inquiry-service/internal/api/dto"
	"github.com/supportdesk/inquiry-service/internal/service"
	apperrors "github.com/supportdesk/inquiry-service/pkg/util"
)

// InquiriesHandler serves the inquiry lifecycle endpoints.
type InquiriesHandler struct {
	inquiries *service.InquiryService
}

// NewInquiriesHandler constructs the handler.
func NewInquiriesHandler(inquiryService *service.InquiryService) *InquiriesHandler {
	return &InquiriesHandler{inquiries: inquiryService}
}

// Create POST /api/inquiries. Public: customers submit without a token.
func (h *InquiriesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateInquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return apperrors.NewValidationError("title, content and customer_email required", nil)
	}

	inquiry, err := h.inquiries.Create(c.Context(), service.InquiryCreateInput{
		Title:         req.Title,
		Content:       req.Content,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromInquiry(inquiry)})
}

// List GET /api/inquiries?status=&limit=&offset=.
func (h *InquiriesHandler) List(c *fiber.Ctx) error {
	var status *string
	if raw := c.Query("status"); raw != "" {
		status = &raw
	}
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)

	list, err := h.inquiries.List(c.Context(), status, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.InquiryResponse, 0, len(list))
	for i := range list {
		items = append(items, dto.FromInquiry(&list[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/inquiries/:id. Includes the full message thread.
func (h *InquiriesHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	inquiry, msgs, err := h.inquiries.Get(c.Context(), id)
	if err != nil {
		return err
	}

	detail := dto.InquiryDetailResponse{
		InquiryResponse: dto.FromInquiry(inquiry),
		Messages:        make([]dto.MessageResponse, 0, len(msgs)),
	}
	for i := range msgs {
		detail.Messages = append(detail.Messages, dto.FromMessage(&msgs[i]))
	}
	return c.JSON(fiber.Map{"data": detail})
}

// Update PATCH /api/inquiries/:id.
func (h *InquiriesHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateInquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.InquiryUpdateInput{Status: req.Status}
	if req.AssignedUserID.Present {
		input.Assignee = &service.AssigneeChange{UserID: req.AssignedUserID.Value}
	}

	inquiry, err := h.inquiries.Update(c.Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromInquiry(inquiry)})
}

// Reply POST /api/inquiries/:id/reply.
func (h *InquiriesHandler) Reply(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return apperrors.NewValidationError("content required", nil)
	}

	msg, err := h.inquiries.Reply(c.Context(), id, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromMessage(msg)})
}
