package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aarogya/internal/errors"
	"aarogya/internal/model"
	"aarogya/internal/repository"
	"aarogya/internal/upload"
)

// UploadReportInput carries the metadata of a lab report upload.
type UploadReportInput struct {
	PatientID uuid.UUID
	DoctorID  *uuid.UUID
	TestName  string
	Priority  model.ReportPriority
	Notes     string
	TestDate  time.Time
}

// ReportService handles lab report uploads and patient-facing report
// reads.
type ReportService interface {
	Upload(ctx context.Context, labUserID uuid.UUID, in UploadReportInput, file *multipart.FileHeader) (*model.Report, error)
	ListForPatient(ctx context.Context, callerID uuid.UUID, callerRole model.Role, patientID uuid.UUID) ([]model.ReportWithNames, error)
	UpdateStatus(ctx context.Context, labUserID, reportID uuid.UUID, status model.ReportStatus) error
}

type reportService struct {
	reportRepo  repository.ReportRepository
	patientRepo repository.PatientRepository
	store       *upload.Store
}

// NewReportService creates a new report service.
func NewReportService(reportRepo repository.ReportRepository, patientRepo repository.PatientRepository, store *upload.Store) ReportService {
	return &reportService{
		reportRepo:  reportRepo,
		patientRepo: patientRepo,
		store:       store,
	}
}

// Upload stores the report file and its database row. The file is removed
// again if the insert fails so disk and database stay in step.
func (s *reportService) Upload(ctx context.Context, labUserID uuid.UUID, in UploadReportInput, file *multipart.FileHeader) (*model.Report, error) {
	if _, err := s.patientRepo.FindByID(ctx, in.PatientID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPatientNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}

	path, err := s.store.Save(file)
	if err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = model.ReportPriorityNormal
	}

	report := &model.Report{
		PatientID: in.PatientID,
		DoctorID:  in.DoctorID,
		LabUserID: labUserID,
		TestName:  in.TestName,
		Status:    model.ReportStatusPending,
		Priority:  priority,
		FilePath:  path,
		Notes:     in.Notes,
		TestDate:  in.TestDate,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		_ = s.store.Remove(path)
		return nil, fmt.Errorf("create report: %w", err)
	}
	return report, nil
}

// ListForPatient returns a patient's reports, newest first. Doctors may
// read any patient; a patient may only read their own.
func (s *reportService) ListForPatient(ctx context.Context, callerID uuid.UUID, callerRole model.Role, patientID uuid.UUID) ([]model.ReportWithNames, error) {
	if callerRole == model.RolePatient {
		patient, err := s.patientRepo.FindByID(ctx, patientID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrPatientNotFound
			}
			return nil, fmt.Errorf("find patient: %w", err)
		}
		if patient.UserID != callerID {
			return nil, errors.ErrForbidden
		}
	}

	reports, err := s.reportRepo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// UpdateStatus transitions a report's status. The update is scoped to the
// uploading lab, so another lab's report reads as not found.
func (s *reportService) UpdateStatus(ctx context.Context, labUserID, reportID uuid.UUID, status model.ReportStatus) error {
	if status != model.ReportStatusPending && status != model.ReportStatusCompleted {
		return fmt.Errorf("invalid report status %q", status)
	}
	affected, err := s.reportRepo.UpdateStatusForLab(ctx, reportID, labUserID, status)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if affected == 0 {
		return errors.ErrReportNotFound
	}
	return nil
}
