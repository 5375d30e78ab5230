package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies the account type and therefore its write capability.
type Role string

const (
	RoleAthlete Role = "athlete"
	RoleParent  Role = "parent"
	RoleAdmin   Role = "admin"
)

// User describes an account: an athlete tracking their recruitment, a parent
// with read-only visibility into one athlete, or an admin.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `gorm:"type:varchar(16);default:'athlete';index" json:"role"`

	// Athlete profile fields; empty for parent accounts.
	Sport          string `json:"sport"`
	Position       string `json:"position"`
	GraduationYear int    `json:"graduation_year"`
	GPA            float64 `json:"gpa"`

	// AthleteID links a parent to the athlete they observe.
	AthleteID *string `gorm:"type:uuid;index" json:"athlete_id,omitempty"`

	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate ensures a UUID is present before persisting.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// CanMutate reports whether the account may perform writes. Parents are
// read-only observers.
func (u *User) CanMutate() bool {
	return u.Role != RoleParent
}
