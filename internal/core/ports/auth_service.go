package ports

import (
	"context"

	"github.com/opendirectory/resource-directory/internal/core/domain"
)

// RegisterInput carries the fields accepted when creating an account.
// Role is honored only when the actor is an owner; the bootstrap path and
// non-owner registrations always get the default role.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
}

// AuthService implements registration, login and credential issuance.
// The actor is the authenticated caller, or nil for anonymous requests.
type AuthService interface {
	Register(ctx context.Context, actor *domain.User, in RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}
