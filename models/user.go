package models

import (
	"time"
)

// Gender values accepted on a profile. An empty string means unspecified.
const (
	GenderUnspecified = ""
	GenderMale        = "M"
	GenderFemale      = "F"
)

// User represents an account in the marketplace (farmer, investor or consumer).
// Email is the identity key and is write-once after creation.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	FirstName   string    `gorm:"size:30" json:"first_name"`
	LastName    string    `gorm:"size:150" json:"last_name"`
	IsStaff     bool      `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser bool      `gorm:"not null;default:false" json:"is_superuser"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	DateJoined  time.Time `gorm:"autoCreateTime" json:"date_joined"`
	Profile     *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"profile"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds superuser privileges
func (u *User) IsAdmin() bool {
	return u.IsSuperuser
}

// Profile holds the marketplace-specific attributes of a user.
// It is created together with its User and removed with it.
type Profile struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	UserID      uint    `gorm:"uniqueIndex;not null" json:"-"`
	Gender      string  `gorm:"size:6" json:"gender"`
	Address     *string `gorm:"size:60" json:"address"`
	PhoneNumber *int64  `json:"phone_number"`
	IsFarmer    bool    `gorm:"not null;default:false" json:"is_farmer"`
	IsInvestor  bool    `gorm:"not null;default:false" json:"is_investor"`
}

// TableName specifies the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}
