package domain

import (
	"context"
	"time"
)

// Staff roles.
const (
	RoleAdmin         = "admin"
	RoleAuthenticator = "authenticator"
)

// Staff represents a staff account that can authenticate against the API.
// Admins manage events and other staff; authenticators perform on-spot
// registration and check-in.
// swagger:model Staff
type Staff struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Salt         string     `json:"-"`
	Role         string     `json:"role"`
	CreatedBy    *string    `json:"created_by,omitempty"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewStaff returns a new Staff with the given fields. ID is typically set by
// the repository on create.
func NewStaff(name, email, passwordHash, salt, role string, createdBy *string, createdAt time.Time) *Staff {
	return &Staff{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		Role:         role,
		CreatedBy:    createdBy,
		CreatedAt:    createdAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated staff member.
type TokenIssuer interface {
	Issue(staffID, email, role string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated staff ID and role.
type TokenVerifier interface {
	Verify(token string) (staffID, role string, err error)
}

// StaffRepository defines the interface for staff account storage.
type StaffRepository interface {
	Create(ctx context.Context, staff *Staff) error
	GetByEmail(ctx context.Context, email string) (*Staff, error)
	GetByID(ctx context.Context, id string) (*Staff, error)
	List(ctx context.Context) ([]*Staff, error)
	UpdatePassword(ctx context.Context, id, passwordHash, salt string) error
	RecordLogin(ctx context.Context, id string, at time.Time) error
}

// AuthService defines staff authentication and account management.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, staff *Staff, err error)
	// Register creates a staff account on behalf of an existing admin.
	// Role defaults to authenticator when empty or unrecognized.
	Register(ctx context.Context, name, email, password, role, createdByID string) (*Staff, error)
	GetByID(ctx context.Context, id string) (*Staff, error)
	UpdatePassword(ctx context.Context, staffID, currentPassword, newPassword string) (token string, err error)
	ListStaff(ctx context.Context) ([]*Staff, error)
}
