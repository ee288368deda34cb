package domain

import (
	"fmt"
	"time"
)

type UserRole string

const (
	RolePlanner     UserRole = "planner"
	RoleVenueHolder UserRole = "venue_holder"
	RoleAdmin       UserRole = "admin"
)

// ParseUserRole only accepts the known roles, so an unexpected token claim
// can never reach the authorization table as a new role.
func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case RolePlanner, RoleVenueHolder, RoleAdmin:
		return UserRole(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role" gorm:"not null"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
