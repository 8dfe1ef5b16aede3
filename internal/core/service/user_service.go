package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/opendirectory/resource-directory/internal/core/domain"
	"github.com/opendirectory/resource-directory/internal/core/ports"
)

// UserService implements user management. All policy checks happen here,
// before any store call, so a handler can never mutate past a denial.
type UserService struct {
	users ports.UserRepository
	audit ports.AuditRecorder
}

func NewUserService(users ports.UserRepository, audit ports.AuditRecorder) *UserService {
	return &UserService{users: users, audit: audit}
}

// List returns every user account. Owner only.
func (s *UserService) List(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !domain.CanListUsers(actor.Role) {
		return nil, domain.ErrForbidden
	}
	return s.users.List(ctx)
}

// Get returns a single account. Any authenticated caller may read accounts.
func (s *UserService) Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.users.FindByID(ctx, id)
}

// Update edits an account. An empty targetID means the actor edits their own
// profile, which any role may do. Editing someone else, or changing a role,
// requires owner.
func (s *UserService) Update(ctx context.Context, actor *domain.User, targetID string, in ports.UpdateUserInput) (*domain.User, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !domain.CanUpdateUser(actor, targetID) {
		return nil, domain.ErrForbidden
	}

	if targetID == "" {
		targetID = actor.ID
	}
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if in.Email != "" {
		target.Email = in.Email
	}
	if in.FirstName != "" {
		target.FirstName = in.FirstName
	}
	if in.LastName != "" {
		target.LastName = in.LastName
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		target.PasswordHash = string(hash)
	}
	if in.Role != "" && in.Role != target.Role {
		if !actor.Role.AtLeast(domain.RoleOwner) {
			return nil, domain.ErrForbidden
		}
		if !in.Role.IsValid() {
			return nil, domain.ErrInvalidInput
		}
		target.Role = in.Role
	}
	target.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, target)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEntry{
		EntityKind: "user",
		EntityID:   updated.ID,
		Action:     domain.AuditActionUpdate,
		ActorID:    actor.ID,
		At:         updated.UpdatedAt,
	})

	return updated, nil
}

// Delete removes an account. Owner only.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, targetID string) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if !domain.CanDeleteUser(actor.Role) {
		return domain.ErrForbidden
	}
	if targetID == "" {
		return domain.ErrInvalidInput
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}

	s.audit.Record(domain.AuditEntry{
		EntityKind: "user",
		EntityID:   targetID,
		Action:     domain.AuditActionDelete,
		ActorID:    actor.ID,
		At:         time.Now().UTC(),
	})

	return nil
}
