package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aarogya/internal/model"
)

// ReportRepository defines report persistence operations.
type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]model.ReportWithNames, error)
	RecentForPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]model.ReportWithNames, error)
	RecentForLab(ctx context.Context, labUserID uuid.UUID, limit int) ([]model.ReportWithNames, error)
	UpdateStatusForLab(ctx context.Context, reportID, labUserID uuid.UUID, status model.ReportStatus) (int64, error)
	CountForPatient(ctx context.Context, patientID uuid.UUID, status model.ReportStatus) (int64, error)
	LabStats(ctx context.Context, labUserID uuid.UUID) (*model.LabStats, error)
	DoctorStats(ctx context.Context, doctorUserID uuid.UUID) (*model.DoctorStats, error)
	PatientStats(ctx context.Context, patientID uuid.UUID) (*model.PatientStats, error)
	RecentPatientsForDoctor(ctx context.Context, doctorUserID uuid.UUID, limit int) ([]model.PatientSummary, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) joinedReports(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("reports r").
		Select("r.*, u_lab.name AS lab_technician_name, u_doc.name AS doctor_name, d.specialization AS doctor_specialization").
		Joins("LEFT JOIN users u_lab ON u_lab.id = r.lab_user_id").
		Joins("LEFT JOIN doctor_profiles d ON d.id = r.doctor_id").
		Joins("LEFT JOIN users u_doc ON u_doc.id = d.user_id")
}

func (r *reportRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]model.ReportWithNames, error) {
	var reports []model.ReportWithNames
	err := r.joinedReports(ctx).
		Where("r.patient_id = ?", patientID).
		Order("r.created_at DESC").
		Scan(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) RecentForPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]model.ReportWithNames, error) {
	var reports []model.ReportWithNames
	err := r.joinedReports(ctx).
		Where("r.patient_id = ?", patientID).
		Order("r.created_at DESC").
		Limit(limit).
		Scan(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) RecentForLab(ctx context.Context, labUserID uuid.UUID, limit int) ([]model.ReportWithNames, error) {
	var reports []model.ReportWithNames
	err := r.db.WithContext(ctx).Table("reports r").
		Select("r.*, u.name AS patient_name").
		Joins("JOIN patient_profiles p ON p.id = r.patient_id").
		Joins("JOIN users u ON u.id = p.user_id").
		Where("r.lab_user_id = ?", labUserID).
		Order("r.created_at DESC").
		Limit(limit).
		Scan(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// UpdateStatusForLab transitions a report's status, scoped to the lab that
// uploaded it. Returns the number of affected rows so callers can turn
// zero into a not-found.
func (r *reportRepository) UpdateStatusForLab(ctx context.Context, reportID, labUserID uuid.UUID, status model.ReportStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Report{}).
		Where("id = ? AND lab_user_id = ?", reportID, labUserID).
		Update("status", status)
	return res.RowsAffected, res.Error
}

func (r *reportRepository) CountForPatient(ctx context.Context, patientID uuid.UUID, status model.ReportStatus) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Report{}).Where("patient_id = ?", patientID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *reportRepository) LabStats(ctx context.Context, labUserID uuid.UUID) (*model.LabStats, error) {
	var stats model.LabStats
	err := r.db.WithContext(ctx).Model(&model.Report{}).
		Select(`COUNT(*) AS total_reports,
			SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END) AS pending_reports,
			SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) AS completed_reports,
			SUM(CASE WHEN priority = 'urgent' THEN 1 ELSE 0 END) AS urgent_reports,
			COUNT(DISTINCT patient_id) AS total_patients`).
		Where("lab_user_id = ?", labUserID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *reportRepository) DoctorStats(ctx context.Context, doctorUserID uuid.UUID) (*model.DoctorStats, error) {
	var stats model.DoctorStats
	err := r.db.WithContext(ctx).Table("doctor_profiles d").
		Select(`COUNT(DISTINCT r.patient_id) AS total_patients,
			COUNT(r.id) AS total_reports,
			SUM(CASE WHEN r.status = 'pending' THEN 1 ELSE 0 END) AS pending_reports`).
		Joins("LEFT JOIN reports r ON r.doctor_id = d.id").
		Where("d.user_id = ?", doctorUserID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *reportRepository) PatientStats(ctx context.Context, patientID uuid.UUID) (*model.PatientStats, error) {
	var stats model.PatientStats
	err := r.db.WithContext(ctx).Model(&model.Report{}).
		Select(`COUNT(*) AS total_reports,
			SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END) AS pending_reports,
			SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) AS completed_reports`).
		Where("patient_id = ?", patientID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *reportRepository) RecentPatientsForDoctor(ctx context.Context, doctorUserID uuid.UUID, limit int) ([]model.PatientSummary, error) {
	var patients []model.PatientSummary
	err := r.db.WithContext(ctx).Table("reports r").
		Select("DISTINCT p.id, u.name, u.email, u.phone, p.age, p.gender, p.created_at").
		Joins("JOIN patient_profiles p ON p.id = r.patient_id").
		Joins("JOIN users u ON u.id = p.user_id").
		Joins("JOIN doctor_profiles d ON d.id = r.doctor_id").
		Where("d.user_id = ?", doctorUserID).
		Order("u.name ASC").
		Limit(limit).
		Scan(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}
