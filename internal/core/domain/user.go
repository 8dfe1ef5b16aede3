package domain

import "time"

// Role classifies a user for authorization purposes. The set is closed and
// ordered by privilege: owner > standard. New roles must be added to both
// roleLevels and the constants below so they cannot silently bypass checks.
type Role string

const (
	RoleStandard Role = "standard"
	RoleOwner    Role = "owner"
)

var roleLevels = map[Role]int{
	RoleStandard: 0,
	RoleOwner:    1,
}

// IsValid reports whether the role is one of the predefined roles.
func (r Role) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

// AtLeast reports whether the role carries at least the privilege of min.
// Unknown roles never satisfy any minimum.
func (r Role) AtLeast(min Role) bool {
	level, ok := roleLevels[r]
	if !ok {
		return false
	}
	minLevel, ok := roleLevels[min]
	if !ok {
		return false
	}
	return level >= minLevel
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
