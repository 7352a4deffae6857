package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	IsVerified   bool
	// RefreshToken holds the single currently valid refresh token, nil when
	// the user has never logged in. Login overwrites it, refresh rotates it.
	RefreshToken *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Profile struct {
	UserID    string
	FirstName string
	LastName  string
	AvatarURL string
	Bio       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	IP        *string
	CreatedAt time.Time
}
