package domain

import "errors"

var (
	// ErrUnauthenticated covers every credential failure: missing, expired,
	// tampered, or a subject that no longer resolves. Callers must not be
	// able to tell these apart from the response.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrForbidden means the identity is valid but the role is insufficient.
	ErrForbidden = errors.New("access forbidden")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")

	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")

	ErrResourceNotFound = errors.New("resource not found")
	ErrLocationNotFound = errors.New("location not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrProviderNotFound = errors.New("provider not found")
)
