package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/opendirectory/resource-directory/internal/auth"
	"github.com/opendirectory/resource-directory/internal/core/domain"
	"github.com/opendirectory/resource-directory/internal/core/ports"
)

// AuthService implements registration, login and credential issuance.
type AuthService struct {
	users  ports.UserRepository
	tokens *auth.Manager
	audit  ports.AuditRecorder
}

func NewAuthService(users ports.UserRepository, tokens *auth.Manager, audit ports.AuditRecorder) *AuthService {
	return &AuthService{users: users, tokens: tokens, audit: audit}
}

// Register creates a new account and issues a credential for it.
//
// Policy: an authenticated owner may always register. An anonymous caller is
// permitted only when the store holds zero users: the one-time bootstrap
// that creates the first owner. This is deliberately narrow: it is not a
// general "first request wins" relaxation, and it closes the moment a single
// user exists.
func (s *AuthService) Register(ctx context.Context, actor *domain.User, in ports.RegisterInput) (*domain.User, string, error) {
	if in.Email == "" || in.Password == "" {
		return nil, "", domain.ErrInvalidInput
	}

	bootstrap := false
	if actor == nil {
		count, err := s.users.Count(ctx)
		if err != nil {
			return nil, "", err
		}
		if !domain.CanRegisterUser(nil, count) {
			return nil, "", domain.ErrUnauthenticated
		}
		bootstrap = true
	} else if !domain.CanRegisterUser(actor, 1) {
		return nil, "", domain.ErrForbidden
	}

	role := domain.RoleStandard
	switch {
	case bootstrap:
		role = domain.RoleOwner
	case in.Role != "":
		if !in.Role.IsValid() {
			return nil, "", domain.ErrInvalidInput
		}
		role = in.Role
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(created)
	if err != nil {
		return nil, "", err
	}

	actorID := created.ID
	if actor != nil {
		actorID = actor.ID
	}
	s.audit.Record(domain.AuditEntry{
		EntityKind: "user",
		EntityID:   created.ID,
		Action:     domain.AuditActionCreate,
		ActorID:    actorID,
		At:         now,
	})

	return created, token, nil
}

// Login verifies the password for the account registered under email and
// issues a fresh credential. Unknown email and wrong password are reported
// identically so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}
