package domain

import "context"

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/S1mon009/auth-service/internal/auth/domain UserRepository,AuditRepository,Mailer,AuditRecorder

type UserRepository interface {
	// GetByEmail returns (nil, nil) when no user has the given email.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByID returns (nil, nil) when no user has the given id.
	GetByID(ctx context.Context, id string) (*User, error)
	// Create inserts the user and its empty profile in one transaction.
	Create(ctx context.Context, user *User, profile *Profile) error
	List(ctx context.Context) ([]User, error)
	SetVerified(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateRole(ctx context.Context, userID string, role Role) error
	// SetRefreshToken unconditionally replaces the stored refresh token.
	SetRefreshToken(ctx context.Context, userID, token string) error
	// RotateRefreshToken replaces the stored token only if it still equals
	// oldToken. Returns false when the stored value differed, so concurrent
	// rotations of the same stale token cannot both succeed.
	RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) (bool, error)
	GetProfileByUserID(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, profile *Profile) error
}

type AuditRepository interface {
	Insert(ctx context.Context, entry *AuditLog) error
	// List returns entries newest first.
	List(ctx context.Context) ([]AuditLog, error)
}

// Mailer delivers outbound account emails. Implementations build the link
// embedding the token against the configured frontend base URL.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, email, token string) error
	SendResetPasswordEmail(ctx context.Context, email, token string) error
}

// AuditRecorder is the fire-and-forget audit hook. Record must not block the
// calling operation and must never fail it.
type AuditRecorder interface {
	Record(ctx context.Context, userID, action, ip string)
}
