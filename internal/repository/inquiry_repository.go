package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/supportdesk/inquiry-service/internal/domain"
)

// InquiryFilter captures listing parameters.
type InquiryFilter struct {
	Status *domain.InquiryStatus
	Limit  int
	Offset int
}

// InquiryPatch describes a partial update. Nil fields are left untouched.
// A non-nil Assignee with a nil UserID clears the assignment.
type InquiryPatch struct {
	Status   *domain.InquiryStatus
	Assignee *Assignee
}

// Assignee wraps the target of an assignment change.
type Assignee struct {
	UserID *int64
}

// Empty reports whether the patch carries no changes.
func (p InquiryPatch) Empty() bool {
	return p.Status == nil && p.Assignee == nil
}

// InquiryRepository encapsulates inquiry persistence.
type InquiryRepository interface {
	WithTx(tx pgx.Tx) InquiryRepository
	Create(ctx context.Context, inquiry *domain.Inquiry) error
	GetByID(ctx context.Context, id int64) (*domain.Inquiry, error)
	List(ctx context.Context, filter InquiryFilter) ([]domain.Inquiry, error)
	ApplyPatch(ctx context.Context, id int64, patch InquiryPatch) error
}

type inquiryRepository struct {
	db Querier
}

// NewInquiryRepository instantiates the repository.
func NewInquiryRepository(db Querier) InquiryRepository {
	return &inquiryRepository{db: db}
}

func (r *inquiryRepository) WithTx(tx pgx.Tx) InquiryRepository {
	return &inquiryRepository{db: tx}
}

func (r *inquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	const query = `
        INSERT INTO inquiries (title, content, customer_email, customer_name, status, category, urgency, assigned_user_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		inquiry.Title,
		inquiry.Content,
		inquiry.CustomerEmail,
		inquiry.CustomerName,
		inquiry.Status,
		inquiry.Category,
		inquiry.Urgency,
		inquiry.AssignedUserID,
	).Scan(&inquiry.ID, &inquiry.CreatedAt)
}

func (r *inquiryRepository) GetByID(ctx context.Context, id int64) (*domain.Inquiry, error) {
	const query = `
        SELECT id, title, content, customer_email, customer_name, status, category, urgency, assigned_user_id, created_at
        FROM inquiries WHERE id=$1`
	var inquiry domain.Inquiry
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&inquiry.ID,
		&inquiry.Title,
		&inquiry.Content,
		&inquiry.CustomerEmail,
		&inquiry.CustomerName,
		&inquiry.Status,
		&inquiry.Category,
		&inquiry.Urgency,
		&inquiry.AssignedUserID,
		&inquiry.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (r *inquiryRepository) List(ctx context.Context, filter InquiryFilter) ([]domain.Inquiry, error) {
	base := `SELECT id, title, content, customer_email, customer_name, status, category, urgency, assigned_user_id, created_at
             FROM inquiries`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Inquiry
	for rows.Next() {
		var inquiry domain.Inquiry
		if err := rows.Scan(
			&inquiry.ID,
			&inquiry.Title,
			&inquiry.Content,
			&inquiry.CustomerEmail,
			&inquiry.CustomerName,
			&inquiry.Status,
			&inquiry.Category,
			&inquiry.Urgency,
			&inquiry.AssignedUserID,
			&inquiry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, inquiry)
	}
	return result, rows.Err()
}

// ApplyPatch writes only the fields present in the patch as a single UPDATE,
// so a partial update commits entirely or not at all.
func (r *inquiryRepository) ApplyPatch(ctx context.Context, id int64, patch InquiryPatch) error {
	if patch.Empty() {
		return nil
	}

	sets := []string{}
	args := []any{}

	if patch.Status != nil {
		args = append(args, *patch.Status)
		sets = append(sets, fmt.Sprintf("status=$%d", len(args)))
	}
	if patch.Assignee != nil {
		args = append(args, patch.Assignee.UserID)
		sets = append(sets, fmt.Sprintf("assigned_user_id=$%d", len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE inquiries SET %s WHERE id=$%d", strings.Join(sets, ", "), len(args))

	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
