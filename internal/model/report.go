package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportStatus represents the processing state of a lab report.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusCompleted ReportStatus = "completed"
)

// ReportPriority represents the urgency of a lab report.
type ReportPriority string

const (
	ReportPriorityLow    ReportPriority = "low"
	ReportPriorityNormal ReportPriority = "normal"
	ReportPriorityHigh   ReportPriority = "high"
	ReportPriorityUrgent ReportPriority = "urgent"
)

// Report represents a diagnostic report uploaded by a lab for a patient.
// PatientID references the patient profile row; LabUserID references the
// uploading lab's user row.
type Report struct {
	ID         uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	PatientID  uuid.UUID      `json:"patient_id" gorm:"type:char(36);not null;index"`
	DoctorID   *uuid.UUID     `json:"doctor_id,omitempty" gorm:"type:char(36);index"`
	LabUserID  uuid.UUID      `json:"lab_user_id" gorm:"type:char(36);not null;index"`
	TestName   string         `json:"test_name" gorm:"size:255;not null"`
	Status     ReportStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Priority   ReportPriority `json:"priority" gorm:"type:varchar(20);not null;default:'normal'"`
	FilePath   string         `json:"file_path" gorm:"size:255;not null"`
	Notes      string         `json:"notes" gorm:"type:text"`
	TestDate   time.Time      `json:"test_date" gorm:"type:date;not null;index"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	Patient PatientProfile `json:"-" gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE"`
	Doctor  *DoctorProfile `json:"-" gorm:"foreignKey:DoctorID;constraint:OnDelete:SET NULL"`
	LabUser User           `json:"-" gorm:"foreignKey:LabUserID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ReportWithNames is a read model joining a report with the names shown on
// patient and doctor dashboards.
type ReportWithNames struct {
	Report
	LabTechnicianName    string `json:"lab_technician_name,omitempty"`
	DoctorName           string `json:"doctor_name,omitempty"`
	DoctorSpecialization string `json:"doctor_specialization,omitempty"`
	PatientName          string `json:"patient_name,omitempty"`
}
