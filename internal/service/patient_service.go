package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aarogya/internal/errors"
	"aarogya/internal/model"
	"aarogya/internal/repository"
)

const recentReportsLimit = 5

// PatientDetails is the doctor-facing view of a patient: profile, report
// counts and the most recent reports.
type PatientDetails struct {
	Patient        *model.PatientSummary   `json:"patient"`
	TotalReports   int64                   `json:"total_reports"`
	PendingReports int64                   `json:"pending_reports"`
	RecentReports  []model.ReportWithNames `json:"recent_reports"`
}

// PatientService serves patient search, detail views and the patient's
// own detail updates.
type PatientService interface {
	Search(ctx context.Context, query string) ([]model.PatientSummary, error)
	Details(ctx context.Context, patientID uuid.UUID) (*PatientDetails, error)
	UpdateDetails(ctx context.Context, callerID, patientID uuid.UUID, upd model.PatientUpdate) error
}

type patientService struct {
	patientRepo repository.PatientRepository
	reportRepo  repository.ReportRepository
}

// NewPatientService creates a new patient service.
func NewPatientService(patientRepo repository.PatientRepository, reportRepo repository.ReportRepository) PatientService {
	return &patientService{
		patientRepo: patientRepo,
		reportRepo:  reportRepo,
	}
}

// Search matches patients by name, email or phone.
func (s *patientService) Search(ctx context.Context, query string) ([]model.PatientSummary, error) {
	patients, err := s.patientRepo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	return patients, nil
}

// Details loads one patient with report counts and recent reports.
func (s *patientService) Details(ctx context.Context, patientID uuid.UUID) (*PatientDetails, error) {
	patient, err := s.patientRepo.Summary(ctx, patientID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPatientNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}

	total, err := s.reportRepo.CountForPatient(ctx, patientID, "")
	if err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}
	pending, err := s.reportRepo.CountForPatient(ctx, patientID, model.ReportStatusPending)
	if err != nil {
		return nil, fmt.Errorf("count pending reports: %w", err)
	}
	recent, err := s.reportRepo.RecentForPatient(ctx, patientID, recentReportsLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent reports: %w", err)
	}

	return &PatientDetails{
		Patient:        patient,
		TotalReports:   total,
		PendingReports: pending,
		RecentReports:  recent,
	}, nil
}

// UpdateDetails updates a patient's own record. A patient may only update
// themself; the email and phone unique indexes arbitrate conflicts.
func (s *patientService) UpdateDetails(ctx context.Context, callerID, patientID uuid.UUID, upd model.PatientUpdate) error {
	patient, err := s.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrPatientNotFound
		}
		return fmt.Errorf("find patient: %w", err)
	}
	if patient.UserID != callerID {
		return errors.ErrForbidden
	}

	if err := s.patientRepo.UpdateDetails(ctx, patient, upd); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return errors.ErrUserExists
		}
		return fmt.Errorf("update patient: %w", err)
	}
	return nil
}
