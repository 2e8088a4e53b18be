package domain

import "time"

type Role string

const (
	RoleSeeker Role = "seeker"
	RoleHelper Role = "helper"
	RoleAdmin  Role = "admin"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleSeeker, RoleHelper, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) IsHelper() bool {
	return u.Role == RoleHelper
}

func (u *User) IsSeeker() bool {
	return u.Role == RoleSeeker
}
