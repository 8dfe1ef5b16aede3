package ports

import (
	"context"

	"github.com/opendirectory/resource-directory/internal/core/domain"
)

// UpdateUserInput carries the mutable account fields. Empty fields are left
// unchanged. Role changes are honored only for owner actors.
type UpdateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
}

// UserService implements the privileged user-management operations. Every
// method takes the acting user explicitly and checks policy before touching
// the store.
type UserService interface {
	List(ctx context.Context, actor *domain.User) ([]domain.User, error)
	Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error)
	Update(ctx context.Context, actor *domain.User, targetID string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.User, targetID string) error
}
