package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/supportdesk/inquiry-service/internal/classifier"
	"github.com/supportdesk/inquiry-service/internal/domain"
	"github.com/supportdesk/inquiry-service/internal/events"
	apperrors "github.com/supportdesk/inquiry-service/pkg/util"
)

type inquiryFixture struct {
	svc        *InquiryService
	db         *fakeDB
	inquiries  *fakeInquiryRepo
	messages   *fakeMessageRepo
	users      *fakeUserRepo
	assigner   *stubAssigner
	mailer     *stubMailer
	dispatcher *recordingDispatcher
}

func newInquiryFixture() *inquiryFixture {
	f := &inquiryFixture{
		db:         &fakeDB{},
		inquiries:  newFakeInquiryRepo(),
		messages:   &fakeMessageRepo{},
		users:      newFakeUserRepo(),
		assigner:   &stubAssigner{},
		mailer:     &stubMailer{},
		dispatcher: &recordingDispatcher{},
	}
	f.svc = NewInquiryService(InquiryDependencies{
		DB:          f.db,
		InquiryRepo: f.inquiries,
		MessageRepo: f.messages,
		UserRepo:    f.users,
		Assigner:    f.assigner,
		Classifier:  &stubClassifier{result: classifier.DefaultResult},
		Mailer:      f.mailer,
		Dispatcher:  f.dispatcher,
		Logger:      zap.NewNop(),
	})
	return f
}

func (f *inquiryFixture) seed(inquiry *domain.Inquiry) *domain.Inquiry {
	_ = f.inquiries.Create(context.Background(), inquiry)
	return inquiry
}

func TestCreateInquiryAssignsAndPublishes(t *testing.T) {
	f := newInquiryFixture()
	assignee := int64(42)
	f.assigner.id = &assignee

	inquiry, err := f.svc.Create(context.Background(), InquiryCreateInput{
		Title:         "Printer on fire",
		Content:       "Smoke everywhere",
		CustomerEmail: "jo@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, inquiry.Status)
	assert.Equal(t, domain.CategoryGeneral, inquiry.Category)
	assert.Equal(t, domain.UrgencyMedium, inquiry.Urgency)
	require.NotNil(t, inquiry.AssignedUserID)
	assert.Equal(t, assignee, *inquiry.AssignedUserID)

	// Assignment read and insert share the transaction.
	require.NotNil(t, f.db.tx)
	assert.Same(t, f.db.tx, f.assigner.gotTx)
	assert.Same(t, f.db.tx, f.inquiries.lastTx)
	assert.True(t, f.db.tx.committed)

	require.Len(t, f.dispatcher.published, 1)
	assert.Equal(t, events.EventNewInquiry, f.dispatcher.published[0].Type)
	assert.Equal(t, events.NewInquiry(inquiry.ID), f.dispatcher.published[0].Payload)
}

func TestCreateInquiryRejectsInvalidEmail(t *testing.T) {
	f := newInquiryFixture()

	_, err := f.svc.Create(context.Background(), InquiryCreateInput{
		Title:         "Hello",
		Content:       "World",
		CustomerEmail: "not-an-address",
	})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	assert.Nil(t, f.db.tx)
	assert.Empty(t, f.dispatcher.published)
}

func TestCreateInquirySucceedsUnassigned(t *testing.T) {
	f := newInquiryFixture()

	inquiry, err := f.svc.Create(context.Background(), InquiryCreateInput{
		Title:         "No staff around",
		Content:       "Still needs filing",
		CustomerEmail: "jo@example.com",
	})

	require.NoError(t, err)
	assert.True(t, f.assigner.called)
	assert.Nil(t, inquiry.AssignedUserID)
}

func TestUpdateInquiryNotFound(t *testing.T) {
	f := newInquiryFixture()
	status := "Completed"

	_, err := f.svc.Update(context.Background(), 99, InquiryUpdateInput{Status: &status})

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestUpdateInquiryRejectsUnknownStatus(t *testing.T) {
	f := newInquiryFixture()
	seeded := f.seed(&domain.Inquiry{Title: "t", Status: domain.StatusNew})
	status := "Closed"

	_, err := f.svc.Update(context.Background(), seeded.ID, InquiryUpdateInput{Status: &status})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	assert.Empty(t, f.inquiries.patches)
}

func TestUpdateInquiryRejectsMissingAssignee(t *testing.T) {
	f := newInquiryFixture()
	seeded := f.seed(&domain.Inquiry{Title: "t", Status: domain.StatusNew})
	ghost := int64(404)
	status := "InProgress"

	_, err := f.svc.Update(context.Background(), seeded.ID, InquiryUpdateInput{
		Status:   &status,
		Assignee: &AssigneeChange{UserID: &ghost},
	})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	// No partial write: the status change must not land either.
	assert.Empty(t, f.inquiries.patches)
	assert.Empty(t, f.dispatcher.published)
}

func TestUpdateInquiryEmptyPatchIsNoOp(t *testing.T) {
	f := newInquiryFixture()
	seeded := f.seed(&domain.Inquiry{Title: "t", Status: domain.StatusOnHold})

	got, err := f.svc.Update(context.Background(), seeded.ID, InquiryUpdateInput{})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnHold, got.Status)
	assert.Empty(t, f.inquiries.patches)
	assert.Empty(t, f.dispatcher.published)
}

func TestUpdateInquiryPublishesCanonicalState(t *testing.T) {
	f := newInquiryFixture()
	staff := &domain.User{ID: 5, Email: "staff@example.com", Role: domain.RoleStaff}
	f.users.add(staff)
	seeded := f.seed(&domain.Inquiry{Title: "t", Status: domain.StatusNew})
	status := "InProgress"

	got, err := f.svc.Update(context.Background(), seeded.ID, InquiryUpdateInput{
		Status:   &status,
		Assignee: &AssigneeChange{UserID: &staff.ID},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	require.NotNil(t, got.AssignedUserID)
	assert.Equal(t, staff.ID, *got.AssignedUserID)

	require.Len(t, f.dispatcher.published, 1)
	payload, ok := f.dispatcher.published[0].Payload.(events.InquiryUpdatedPayload)
	require.True(t, ok)
	assert.Equal(t, "inquiry_updated", payload.Event)
	assert.Equal(t, seeded.ID, payload.InquiryID)
	assert.Equal(t, "InProgress", payload.Status)
	require.NotNil(t, payload.AssignedUserID)
	assert.Equal(t, staff.ID, *payload.AssignedUserID)
}

func TestUpdateInquiryClearsAssignment(t *testing.T) {
	f := newInquiryFixture()
	owner := int64(5)
	seeded := f.seed(&domain.Inquiry{Title: "t", Status: domain.StatusNew, AssignedUserID: &owner})

	got, err := f.svc.Update(context.Background(), seeded.ID, InquiryUpdateInput{
		Assignee: &AssigneeChange{UserID: nil},
	})

	require.NoError(t, err)
	assert.Nil(t, got.AssignedUserID)
}

func TestReplyCompletesInquiryAndSendsMail(t *testing.T) {
	f := newInquiryFixture()
	seeded := f.seed(&domain.Inquiry{
		Title:         "Broken invoice",
		Status:        domain.StatusInProgress,
		CustomerEmail: "jo@example.com",
	})

	msg, err := f.svc.Reply(context.Background(), seeded.ID, "We fixed it.")

	require.NoError(t, err)
	assert.Equal(t, domain.SenderStaff, msg.SenderType)
	assert.Equal(t, seeded.ID, msg.InquiryID)

	// Message insert and completion ride one transaction.
	require.NotNil(t, f.db.tx)
	assert.Same(t, f.db.tx, f.messages.lastTx)
	assert.Same(t, f.db.tx, f.inquiries.lastTx)
	assert.True(t, f.db.tx.committed)

	stored, err := f.inquiries.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "jo@example.com", f.mailer.sent[0].to)
	assert.Equal(t, "Re: Broken invoice", f.mailer.sent[0].subject)

	require.Len(t, f.dispatcher.published, 1)
	payload, ok := f.dispatcher.published[0].Payload.(events.InquiryUpdatedPayload)
	require.True(t, ok)
	assert.Equal(t, "Completed", payload.Status)
}

func TestReplySurvivesMailFailure(t *testing.T) {
	f := newInquiryFixture()
	f.mailer.err = errors.New("smtp down")
	seeded := f.seed(&domain.Inquiry{Title: "t", Status: domain.StatusNew, CustomerEmail: "jo@example.com"})

	_, err := f.svc.Reply(context.Background(), seeded.ID, "reply body")

	require.NoError(t, err)
	stored, err := f.inquiries.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
	require.Len(t, f.dispatcher.published, 1)
}

func TestReplyNotFound(t *testing.T) {
	f := newInquiryFixture()

	_, err := f.svc.Reply(context.Background(), 12345, "hello")

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
	assert.Empty(t, f.mailer.sent)
}

func TestListRejectsUnknownStatus(t *testing.T) {
	f := newInquiryFixture()
	status := "Archived"

	_, err := f.svc.List(context.Background(), &status, 10, 0)

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestGetReturnsThread(t *testing.T) {
	f := newInquiryFixture()
	seeded := f.seed(&domain.Inquiry{Title: "t", Status: domain.StatusNew})
	_ = f.messages.Create(context.Background(), &domain.Message{InquiryID: seeded.ID, Content: "hi", SenderType: domain.SenderCustomer})
	_ = f.messages.Create(context.Background(), &domain.Message{InquiryID: seeded.ID + 1, Content: "other", SenderType: domain.SenderCustomer})

	inquiry, msgs, err := f.svc.Get(context.Background(), seeded.ID)

	require.NoError(t, err)
	assert.Equal(t, seeded.ID, inquiry.ID)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi", msgs[0].Content)
}
