package models

import "time"

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleAgent     UserRole = "agent"
	RolePrincipal UserRole = "principal"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RolePrincipal:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         UserRole  `gorm:"size:20;index;not null" json:"role"`
	Phone        string    `gorm:"size:50" json:"phone,omitempty"`
	Address      string    `gorm:"size:255" json:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
