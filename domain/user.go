package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

type UserStatus string

const (
	StatusActive   UserStatus = "ACTIVE"
	StatusDisabled UserStatus = "DISABLED"
)

// User is an identity record. Users are never hard-deleted; admins toggle
// role and status instead.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Role         UserRole   `json:"role"`
	Status       UserStatus `json:"status"`
	AvatarURL    string     `json:"avatarUrl,omitempty"`
	CreatedAt    time.Time  `json:"-"`
	UpdatedAt    time.Time  `json:"-"`
}

func ValidRole(v string) bool {
	return v == string(RoleUser) || v == string(RoleAdmin)
}

func ValidStatus(v string) bool {
	return v == string(StatusActive) || v == string(StatusDisabled)
}
