package entity

import "strings"

type UserStatus int16

const (
	// UserStatusUnknown is mean status is not known / not set.
	UserStatusUnknown UserStatus = 0

	// UserStatusUnverified mean user exists but has not completed verification.
	UserStatusUnverified UserStatus = 1

	// UserStatusActive mean user is allowed to use the app.
	UserStatusActive UserStatus = 2

	// UserStatusBanned mean user is blocked from using the app.
	UserStatusBanned UserStatus = 3

	// UserStatusInactive mean the account was closed.
	UserStatusInactive UserStatus = 4
)

func (us UserStatus) String() string {
	switch us {
	case UserStatusActive:
		return "Active"
	case UserStatusBanned:
		return "Banned"
	case UserStatusInactive:
		return "Inactive"
	case UserStatusUnverified:
		return "Unverified"
	default:
		return "Unknown"
	}
}

// Ensure folds any value outside the known set into UserStatusUnknown.
func (us UserStatus) Ensure() UserStatus {
	switch us {
	case UserStatusUnverified, UserStatusActive, UserStatusBanned, UserStatusInactive:
		return us
	default:
		return UserStatusUnknown
	}
}

// Role is the casbin subject of an account.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// ParseRole returns the role named by s, or RolePatient when s is not one.
func ParseRole(s string) Role {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleDoctor, RoleAdmin:
		return r
	default:
		return RolePatient
	}
}

func (r Role) String() string {
	return string(r)
}
