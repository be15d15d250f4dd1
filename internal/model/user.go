package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies the portal role an account was registered with. It is
// fixed at creation and never changes.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleLab     Role = "lab"
	RoleAdmin   Role = "admin"
)

// SelfRegisterable reports whether the role may be created through the
// public registration endpoint. Admin accounts are seeded out-of-band.
func (r Role) SelfRegisterable() bool {
	return r == RolePatient || r == RoleDoctor || r == RoleLab
}

// ApprovalStatus represents the admin approval state of an account.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// User represents an account in the portal. Email and phone are each
// globally unique; the unique indexes are what actually arbitrates
// concurrent duplicate registrations.
type User struct {
	ID             uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Name           string         `json:"name" gorm:"size:255;not null;index"`
	Email          string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Phone          string         `json:"phone" gorm:"uniqueIndex;size:20;not null"`
	PasswordHash   string         `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role           Role           `json:"role" gorm:"type:varchar(20);not null;index"`
	ApprovalStatus ApprovalStatus `json:"approval_status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
