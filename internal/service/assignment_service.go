package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/supportdesk/inquiry-service/internal/repository"
)

// Assigner picks the staff member for a new or reassigned inquiry.
type Assigner interface {
	Assign(ctx context.Context, tx pgx.Tx) *int64
}

// AssignmentService selects the least-loaded Staff user.
type AssignmentService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(users repository.UserRepository, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{users: users, logger: logger}
}

// Assign returns the id of the Staff user with the fewest active (New or
// On-Hold) inquiries, ties broken by lowest user id. When tx is non-nil the
// workload read runs on it, so the read and the subsequent insert see the
// same committed state. Returns nil when no Staff users exist or on any
// persistence failure: an inquiry is still created, just unassigned.
func (s *AssignmentService) Assign(ctx context.Context, tx pgx.Tx) *int64 {
	users := s.users
	if tx != nil {
		users = users.WithTx(tx)
	}

	workloads, err := users.StaffWorkloads(ctx)
	if err != nil {
		s.logger.Error("staff workload query failed; leaving inquiry unassigned", zap.Error(err))
		return nil
	}
	if len(workloads) == 0 {
		return nil
	}

	best := workloads[0]
	for _, w := range workloads[1:] {
		if w.Workload < best.Workload || (w.Workload == best.Workload && w.UserID < best.UserID) {
			best = w
		}
	}
	id := best.UserID
	return &id
}
