package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aarogya/internal/cache"
	"aarogya/internal/errors"
	"aarogya/internal/model"
	"aarogya/internal/repository"
)

const (
	dashboardCacheTTL    = time.Minute
	recentActivitiesSize = 5
)

// LabDashboard is the stats block shown to lab users.
type LabDashboard struct {
	model.LabStats
	RecentActivities []model.ReportWithNames `json:"recent_activities"`
}

// DoctorDashboard is the stats block shown to doctors.
type DoctorDashboard struct {
	model.DoctorStats
	RecentPatients []model.PatientSummary `json:"recent_patients"`
}

// PatientDashboard is the stats block shown to patients.
type PatientDashboard struct {
	model.PatientStats
	RecentReports []model.ReportWithNames `json:"recent_reports"`
}

// DashboardService computes role-scoped dashboard stats. Results are
// cached briefly in Redis; the queries behind them fan out over the
// reports table.
type DashboardService interface {
	Stats(ctx context.Context, userID uuid.UUID, role model.Role) (interface{}, error)
}

type dashboardService struct {
	reportRepo  repository.ReportRepository
	patientRepo repository.PatientRepository
	cache       *cache.Client
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(reportRepo repository.ReportRepository, patientRepo repository.PatientRepository, cache *cache.Client) DashboardService {
	return &dashboardService{
		reportRepo:  reportRepo,
		patientRepo: patientRepo,
		cache:       cache,
	}
}

func (s *dashboardService) cacheKey(role model.Role, userID uuid.UUID) string {
	return fmt.Sprintf("dashboard:%s:%s", role, userID)
}

// Stats returns the dashboard block for the caller's role.
func (s *dashboardService) Stats(ctx context.Context, userID uuid.UUID, role model.Role) (interface{}, error) {
	key := s.cacheKey(role, userID)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		return json.RawMessage(data), nil
	}

	var stats interface{}
	var err error
	switch role {
	case model.RoleLab:
		stats, err = s.labStats(ctx, userID)
	case model.RoleDoctor:
		stats, err = s.doctorStats(ctx, userID)
	case model.RolePatient:
		stats, err = s.patientStats(ctx, userID)
	default:
		return nil, errors.ErrForbidden
	}
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetJSON(ctx, key, stats, dashboardCacheTTL)
	return stats, nil
}

func (s *dashboardService) labStats(ctx context.Context, labUserID uuid.UUID) (*LabDashboard, error) {
	stats, err := s.reportRepo.LabStats(ctx, labUserID)
	if err != nil {
		return nil, fmt.Errorf("lab stats: %w", err)
	}
	recent, err := s.reportRepo.RecentForLab(ctx, labUserID, recentActivitiesSize)
	if err != nil {
		return nil, fmt.Errorf("recent lab reports: %w", err)
	}
	return &LabDashboard{LabStats: *stats, RecentActivities: recent}, nil
}

func (s *dashboardService) doctorStats(ctx context.Context, doctorUserID uuid.UUID) (*DoctorDashboard, error) {
	stats, err := s.reportRepo.DoctorStats(ctx, doctorUserID)
	if err != nil {
		return nil, fmt.Errorf("doctor stats: %w", err)
	}
	recent, err := s.reportRepo.RecentPatientsForDoctor(ctx, doctorUserID, recentActivitiesSize)
	if err != nil {
		return nil, fmt.Errorf("recent patients: %w", err)
	}
	return &DoctorDashboard{DoctorStats: *stats, RecentPatients: recent}, nil
}

func (s *dashboardService) patientStats(ctx context.Context, patientUserID uuid.UUID) (*PatientDashboard, error) {
	patient, err := s.patientRepo.FindByUserID(ctx, patientUserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPatientNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	stats, err := s.reportRepo.PatientStats(ctx, patient.ID)
	if err != nil {
		return nil, fmt.Errorf("patient stats: %w", err)
	}
	recent, err := s.reportRepo.RecentForPatient(ctx, patient.ID, recentActivitiesSize)
	if err != nil {
		return nil, fmt.Errorf("recent reports: %w", err)
	}
	return &PatientDashboard{PatientStats: *stats, RecentReports: recent}, nil
}
