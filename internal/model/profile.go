package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DoctorProfile extends a doctor User with its specialization.
type DoctorProfile struct {
	ID             uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex"`
	Specialization string    `json:"specialization" gorm:"size:255"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// LabProfile extends a lab User with its address.
type LabProfile struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex"`
	Address   string    `json:"address" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// PatientProfile extends a patient User with demographics. Reports key on
// this row's ID, not on the user ID.
type PatientProfile struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender" gorm:"size:50"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (p *DoctorProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *LabProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *PatientProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProfileDetails is the role-variant view merged into user responses.
// Exactly the fields of the caller's role are populated; the rest stay
// empty and are omitted from JSON.
type ProfileDetails struct {
	Specialization string `json:"specialization,omitempty"`
	Address        string `json:"address,omitempty"`
	Age            *int   `json:"age,omitempty"`
	Gender         string `json:"gender,omitempty"`
}

// PatientSummary is a read model joining a patient profile with its user
// row, used by doctor-side search and listings.
type PatientSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
}

// PatientUpdate carries a partial update of a patient's user and profile
// rows. Zero values leave the field untouched.
type PatientUpdate struct {
	Name   string
	Email  string
	Phone  string
	Age    *int
	Gender string
}

// UserWithDetails is a read model joining a user row with its
// role-specific fields, used by admin listings.
type UserWithDetails struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Role           Role           `json:"role"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
	CreatedAt      time.Time      `json:"created_at"`
	Specialization string         `json:"specialization,omitempty"`
	Address        string         `json:"address,omitempty"`
}
