package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleUser    UserRole = "USER"
	UserRoleAdmin   UserRole = "ADMIN"
	UserRoleManager UserRole = "MANAGER"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin, UserRoleManager:
		return true
	default:
		return false
	}
}

type User struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name                string     `gorm:"type:varchar(255);not null" json:"name"`
	Email               string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash        string     `gorm:"column:password_hash;type:text;not null" json:"-"`
	Role                UserRole   `gorm:"type:varchar(16);not null;default:'USER'" json:"role"`
	IsActive            bool       `gorm:"not null" json:"isActive"`
	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	LastFailedLoginAt   *time.Time `json:"-"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// PublicUser is the projection returned by the auth endpoints.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  UserRole  `json:"role"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
