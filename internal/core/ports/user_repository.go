package ports

import (
	"context"

	"github.com/auvet/auth-service/internal/core/domain"
)

// UserRepository persists identity records. Implementations are the authority
// for cpf and email uniqueness: a create that races past the service-level
// pre-checks must fail with domain.ErrCPFTaken or domain.ErrEmailTaken.
// Each create writes the user record and its profile as a single atomic unit.
type UserRepository interface {
	// FindByCPF returns the user with its attached profile(s), or
	// domain.ErrUserNotFound. The cpf must already be normalized.
	FindByCPF(ctx context.Context, cpf string) (*domain.User, error)

	// FindByEmail returns the bare user record (no profiles), or
	// domain.ErrUserNotFound. Used only for uniqueness pre-checks.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	CreateTutor(ctx context.Context, user *domain.User, profile *domain.TutorProfile) error
	CreateEmployee(ctx context.Context, user *domain.User, profile *domain.EmployeeProfile) error
}
