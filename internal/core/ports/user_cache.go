package ports

import (
	"context"

	"github.com/auvet/auth-service/internal/core/domain"
)

// UserCache is a read-through cache for user lookups. Get returns (nil, nil)
// on a miss. Only the direct user-lookup path reads from it; login and token
// validation always go to the repository so employee status stays fresh.
type UserCache interface {
	Get(ctx context.Context, cpf string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
}
