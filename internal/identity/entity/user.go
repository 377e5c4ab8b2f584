package entity

import (
	"time"

	"github.com/shandysiswandi/medibook/internal/pkg/valueobject"
)

type User struct {
	ID        int64
	Email     string
	FullName  string
	Phone     string
	Role      Role
	Status    UserStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewUser struct {
	ID       int64
	Email    string
	FullName string
	Phone    string
	Role     Role
	Status   UserStatus
}

type UserLoginInfo struct {
	ID       int64
	Email    string
	Role     Role
	Status   UserStatus
	Password string // hashed
}

type UserCredentialInfo struct {
	ID        int64
	Email     string
	Status    UserStatus
	Password  string // hashed
	UpdatedAt time.Time
}

type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string // hmac of the token handed to the client
	ExpiresAt time.Time
	Metadata  valueobject.JSONMap
}

type RotateRefreshToken struct {
	NewID        int64
	OldID        int64
	UserID       int64
	NewToken     string
	NewExpiresAt time.Time
	Metadata     valueobject.JSONMap
}

type UserRefreshToken struct {
	UserID                   int64
	UserEmail                string
	UserRole                 Role
	UserStatus               UserStatus
	RefreshID                int64
	RefreshRevoked           bool
	RefreshReplacedByTokenID *int64
	RefreshExpiresAt         time.Time
}

// CredentialReport describes a stored credential without exposing it.
type CredentialReport struct {
	UserID      int64
	Algorithm   string
	Cost        int
	WellFormed  bool
	NeedsRehash bool
	UpdatedAt   time.Time
}
