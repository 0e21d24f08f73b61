package service

import (
	"context"
	"errors"
	netmail "net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/supportdesk/inquiry-service/internal/classifier"
	"github.com/supportdesk/inquiry-service/internal/domain"
	"github.com/supportdesk/inquiry-service/internal/events"
	"github.com/supportdesk/inquiry-service/internal/mail"
	"github.com/supportdesk/inquiry-service/internal/repository"
	apperrors "github.com/supportdesk/inquiry-service/pkg/util"
)

// InquiryService owns the inquiry lifecycle: creation, partial updates, and
// staff replies, plus the events each transition emits.
type InquiryService struct {
	db         repository.TxBeginner
	inquiries  repository.InquiryRepository
	messages   repository.MessageRepository
	users      repository.UserRepository
	assigner   Assigner
	classifier classifier.Classifier
	mailer     mail.Sender
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// InquiryDependencies bundles collaborators for the inquiry service.
type InquiryDependencies struct {
	DB          repository.TxBeginner
	InquiryRepo repository.InquiryRepository
	MessageRepo repository.MessageRepository
	UserRepo    repository.UserRepository
	Assigner    Assigner
	Classifier  classifier.Classifier
	Mailer      mail.Sender
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// InquiryCreateInput describes a creation command, regardless of whether it
// arrived over HTTP or from the mailbox poll.
type InquiryCreateInput struct {
	Title         string
	Content       string
	CustomerEmail string
	CustomerName  *string
}

// InquiryUpdateInput describes a partial update. Nil fields are untouched.
// A non-nil Assignee with nil UserID clears the assignment.
type InquiryUpdateInput struct {
	Status   *string
	Assignee *AssigneeChange
}

// AssigneeChange wraps the assignment target of an update.
type AssigneeChange struct {
	UserID *int64
}

// NewInquiryService constructs the service.
func NewInquiryService(deps InquiryDependencies) *InquiryService {
	return &InquiryService{
		db:         deps.DB,
		inquiries:  deps.InquiryRepo,
		messages:   deps.MessageRepo,
		users:      deps.UserRepo,
		assigner:   deps.Assigner,
		classifier: deps.Classifier,
		mailer:     deps.Mailer,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Create classifies, assigns, and persists a new inquiry, then emits a
// new_inquiry event. Classification and assignment are advisory: their
// failures degrade the result (default pair, unassigned) but never block
// creation.
func (s *InquiryService) Create(ctx context.Context, input InquiryCreateInput) (*domain.Inquiry, error) {
	if _, err := netmail.ParseAddress(input.CustomerEmail); err != nil {
		return nil, apperrors.NewValidationError("invalid customer email", map[string]any{"customer_email": input.CustomerEmail})
	}

	result := s.classifier.Classify(ctx, input.Title, input.Content)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	inquiry := &domain.Inquiry{
		Title:          input.Title,
		Content:        input.Content,
		CustomerEmail:  input.CustomerEmail,
		CustomerName:   input.CustomerName,
		Status:         domain.StatusNew,
		Category:       result.Category,
		Urgency:        result.Urgency,
		AssignedUserID: s.assigner.Assign(ctx, tx),
	}

	if err := s.inquiries.WithTx(tx).Create(ctx, inquiry); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventNewInquiry, events.NewInquiry(inquiry.ID))
	return inquiry, nil
}

// Update applies a partial patch to an inquiry. All validation happens
// before the single-statement write, so either every supplied field commits
// or none does. An empty patch is a no-op returning the current entity.
func (s *InquiryService) Update(ctx context.Context, id int64, input InquiryUpdateInput) (*domain.Inquiry, error) {
	inquiry, err := s.inquiries.GetByID(ctx, id)
	if err != nil {
		return nil, mapInquiryErr(err, id)
	}

	patch := repository.InquiryPatch{}
	if input.Status != nil {
		status, ok := domain.ParseInquiryStatus(*input.Status)
		if !ok {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		patch.Status = &status
	}
	if input.Assignee != nil {
		if input.Assignee.UserID != nil {
			if _, err := s.users.GetByID(ctx, *input.Assignee.UserID); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, apperrors.NewValidationError("assigned user does not exist", map[string]any{"assigned_user_id": *input.Assignee.UserID})
				}
				return nil, apperrors.MapError(err)
			}
		}
		patch.Assignee = &repository.Assignee{UserID: input.Assignee.UserID}
	}

	if patch.Empty() {
		return inquiry, nil
	}

	if err := s.inquiries.ApplyPatch(ctx, id, patch); err != nil {
		return nil, mapInquiryErr(err, id)
	}

	updated, err := s.inquiries.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventInquiryUpdated,
		events.InquiryUpdated(updated.ID, string(updated.Status), updated.AssignedUserID))
	return updated, nil
}

// Reply appends a staff message and completes the inquiry in one
// transaction. A staff reply is treated as case resolution, regardless of
// the prior status. The customer email and the inquiry_updated event are
// best-effort once the commit succeeds.
func (s *InquiryService) Reply(ctx context.Context, id int64, content string) (*domain.Message, error) {
	inquiry, err := s.inquiries.GetByID(ctx, id)
	if err != nil {
		return nil, mapInquiryErr(err, id)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	msg := &domain.Message{
		InquiryID:  id,
		Content:    content,
		SenderType: domain.SenderStaff,
	}
	if err := s.messages.WithTx(tx).Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}

	completed := domain.StatusCompleted
	if err := s.inquiries.WithTx(tx).ApplyPatch(ctx, id, repository.InquiryPatch{Status: &completed}); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.mailer.Send(ctx, inquiry.CustomerEmail, "Re: "+inquiry.Title, content); err != nil {
		s.logger.Warn("reply email failed",
			zap.Int64("inquiry_id", id),
			zap.Error(err))
	}

	s.publish(ctx, events.EventInquiryUpdated,
		events.InquiryUpdated(id, string(domain.StatusCompleted), inquiry.AssignedUserID))
	return msg, nil
}

// List returns inquiries, optionally filtered by status.
func (s *InquiryService) List(ctx context.Context, status *string, limit, offset int) ([]domain.Inquiry, error) {
	filter := repository.InquiryFilter{Limit: limit, Offset: offset}
	if status != nil {
		parsed, ok := domain.ParseInquiryStatus(*status)
		if !ok {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *status})
		}
		filter.Status = &parsed
	}
	list, err := s.inquiries.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// Get returns an inquiry with its message thread.
func (s *InquiryService) Get(ctx context.Context, id int64) (*domain.Inquiry, []domain.Message, error) {
	inquiry, err := s.inquiries.GetByID(ctx, id)
	if err != nil {
		return nil, nil, mapInquiryErr(err, id)
	}
	msgs, err := s.messages.ListByInquiry(ctx, id)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return inquiry, msgs, nil
}

func (s *InquiryService) publish(ctx context.Context, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func mapInquiryErr(err error, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("inquiry", map[string]any{"inquiry_id": id})
	}
	return apperrors.MapError(err)
}
