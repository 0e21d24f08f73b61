package domain

import "time"

// UserRole separates administrators from support staff. Only Staff-role
// users are eligible for inquiry assignment.
type UserRole string

const (
	RoleAdmin UserRole = "Admin"
	RoleStaff UserRole = "Staff"
)

// ParseUserRole validates a role literal.
func ParseUserRole(raw string) (UserRole, bool) {
	switch UserRole(raw) {
	case RoleAdmin, RoleStaff:
		return UserRole(raw), true
	}
	return "", false
}

// User is an internal operator account (admin or support staff).
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StaffWorkload pairs a Staff-role user with their active inquiry count.
type StaffWorkload struct {
	UserID   int64
	Workload int64
}
