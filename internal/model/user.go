package model

import (
	"time"

	"gorm.io/gorm"
)

// UserStatus tracks admin approval of a registered account
type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusApproved UserStatus = "approved"
	UserStatusRejected UserStatus = "rejected"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account. One account may own several matrimonial profiles.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Phone     string         `json:"phone" gorm:"type:varchar(20)"`
	Password  string         `json:"-" gorm:"type:varchar(255)"`
	Role      string         `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	Status    UserStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsApproved reports whether the account may sign in
func (u *User) IsApproved() bool {
	return u.Status == UserStatusApproved
}
