package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/supportdesk/inquiry-service/internal/classifier"
	"github.com/supportdesk/inquiry-service/internal/domain"
	"github.com/supportdesk/inquiry-service/internal/events"
	"github.com/supportdesk/inquiry-service/internal/repository"
)

// fakeTx satisfies pgx.Tx through embedding; only the lifecycle methods the
// services call are overridden. Anything else panics, which is what we want.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	tx       *fakeTx
	beginErr error
}

func (d *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	d.tx = &fakeTx{}
	return d.tx, nil
}

type fakeUserRepo struct {
	users       map[int64]*domain.User
	byEmail     map[string]*domain.User
	workloads   []domain.StaffWorkload
	workloadErr error
	createErr   error
	updateErr   error
	deleteErr   error
	created     []*domain.User
	lastTx      pgx.Tx
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[int64]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *fakeUserRepo) add(user *domain.User) {
	r.users[user.ID] = user
	r.byEmail[user.Email] = user
}

func (r *fakeUserRepo) WithTx(tx pgx.Tx) repository.UserRepository {
	r.lastTx = tx
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	user.ID = int64(len(r.users) + 1)
	r.add(user)
	r.created = append(r.created, user)
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.add(user)
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	delete(r.byEmail, user.Email)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) List(context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

func (r *fakeUserRepo) StaffWorkloads(context.Context) ([]domain.StaffWorkload, error) {
	if r.workloadErr != nil {
		return nil, r.workloadErr
	}
	return r.workloads, nil
}

type fakeInquiryRepo struct {
	inquiries map[int64]*domain.Inquiry
	nextID    int64
	createErr error
	patchErr  error
	patches   []repository.InquiryPatch
	lastTx    pgx.Tx
}

func newFakeInquiryRepo() *fakeInquiryRepo {
	return &fakeInquiryRepo{inquiries: make(map[int64]*domain.Inquiry), nextID: 1}
}

func (r *fakeInquiryRepo) WithTx(tx pgx.Tx) repository.InquiryRepository {
	r.lastTx = tx
	return r
}

func (r *fakeInquiryRepo) Create(_ context.Context, inquiry *domain.Inquiry) error {
	if r.createErr != nil {
		return r.createErr
	}
	inquiry.ID = r.nextID
	r.nextID++
	r.inquiries[inquiry.ID] = inquiry
	return nil
}

func (r *fakeInquiryRepo) GetByID(_ context.Context, id int64) (*domain.Inquiry, error) {
	inquiry, ok := r.inquiries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *inquiry
	return &copied, nil
}

func (r *fakeInquiryRepo) List(_ context.Context, _ repository.InquiryFilter) ([]domain.Inquiry, error) {
	out := make([]domain.Inquiry, 0, len(r.inquiries))
	for _, inquiry := range r.inquiries {
		out = append(out, *inquiry)
	}
	return out, nil
}

func (r *fakeInquiryRepo) ApplyPatch(_ context.Context, id int64, patch repository.InquiryPatch) error {
	if r.patchErr != nil {
		return r.patchErr
	}
	inquiry, ok := r.inquiries[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if patch.Status != nil {
		inquiry.Status = *patch.Status
	}
	if patch.Assignee != nil {
		inquiry.AssignedUserID = patch.Assignee.UserID
	}
	r.patches = append(r.patches, patch)
	return nil
}

type fakeMessageRepo struct {
	messages  []*domain.Message
	createErr error
	lastTx    pgx.Tx
}

func (r *fakeMessageRepo) WithTx(tx pgx.Tx) repository.MessageRepository {
	r.lastTx = tx
	return r
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	if r.createErr != nil {
		return r.createErr
	}
	msg.ID = int64(len(r.messages) + 1)
	r.messages = append(r.messages, msg)
	return nil
}

func (r *fakeMessageRepo) ListByInquiry(_ context.Context, inquiryID int64) ([]domain.Message, error) {
	var out []domain.Message
	for _, msg := range r.messages {
		if msg.InquiryID == inquiryID {
			out = append(out, *msg)
		}
	}
	return out, nil
}

type stubClassifier struct {
	result classifier.Result
}

func (c *stubClassifier) Classify(context.Context, string, string) classifier.Result {
	return c.result
}

type stubAssigner struct {
	id     *int64
	gotTx  pgx.Tx
	called bool
}

func (a *stubAssigner) Assign(_ context.Context, tx pgx.Tx) *int64 {
	a.called = true
	a.gotTx = tx
	return a.id
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type stubMailer struct {
	sent []sentMail
	err  error
}

func (m *stubMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return m.err
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}
