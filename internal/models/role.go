package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser   = "user"
	RoleHost   = "host"
	RoleVendor = "vendor"
)

type UserRole struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsValidRole reports whether role is one of the three assignable roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleHost, RoleVendor:
		return true
	}
	return false
}
