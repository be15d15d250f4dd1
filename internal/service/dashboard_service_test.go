package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"aarogya/internal/errors"
	"aarogya/internal/model"
)

// The nil cache client behaves as a permanent miss, so these tests
// exercise the database path.

func TestDashboardService_LabStats(t *testing.T) {
	labUserID := uuid.New()
	mockReports := new(MockReportRepository)
	mockReports.On("LabStats", mock.Anything, labUserID).Return(&model.LabStats{
		TotalReports:     12,
		PendingReports:   3,
		CompletedReports: 9,
		UrgentReports:    1,
		TotalPatients:    7,
	}, nil)
	mockReports.On("RecentForLab", mock.Anything, labUserID, recentActivitiesSize).
		Return([]model.ReportWithNames{{PatientName: "A"}}, nil)

	svc := NewDashboardService(mockReports, new(MockPatientRepository), nil)
	stats, err := svc.Stats(context.Background(), labUserID, model.RoleLab)

	assert.NoError(t, err)
	dashboard, ok := stats.(*LabDashboard)
	assert.True(t, ok)
	assert.Equal(t, int64(12), dashboard.TotalReports)
	assert.Equal(t, int64(3), dashboard.PendingReports)
	assert.Len(t, dashboard.RecentActivities, 1)
	mockReports.AssertExpectations(t)
}

func TestDashboardService_DoctorStats(t *testing.T) {
	doctorUserID := uuid.New()
	mockReports := new(MockReportRepository)
	mockReports.On("DoctorStats", mock.Anything, doctorUserID).Return(&model.DoctorStats{
		TotalPatients:  4,
		TotalReports:   8,
		PendingReports: 2,
	}, nil)
	mockReports.On("RecentPatientsForDoctor", mock.Anything, doctorUserID, recentActivitiesSize).
		Return([]model.PatientSummary{{Name: "A"}, {Name: "B"}}, nil)

	svc := NewDashboardService(mockReports, new(MockPatientRepository), nil)
	stats, err := svc.Stats(context.Background(), doctorUserID, model.RoleDoctor)

	assert.NoError(t, err)
	dashboard, ok := stats.(*DoctorDashboard)
	assert.True(t, ok)
	assert.Equal(t, int64(4), dashboard.TotalPatients)
	assert.Len(t, dashboard.RecentPatients, 2)
	mockReports.AssertExpectations(t)
}

func TestDashboardService_PatientStats(t *testing.T) {
	patientUserID := uuid.New()
	patientID := uuid.New()

	t.Run("resolves the profile from the user id", func(t *testing.T) {
		mockReports := new(MockReportRepository)
		mockPatients := new(MockPatientRepository)
		mockPatients.On("FindByUserID", mock.Anything, patientUserID).
			Return(&model.PatientProfile{ID: patientID, UserID: patientUserID}, nil)
		mockReports.On("PatientStats", mock.Anything, patientID).Return(&model.PatientStats{
			TotalReports:     5,
			PendingReports:   1,
			CompletedReports: 4,
		}, nil)
		mockReports.On("RecentForPatient", mock.Anything, patientID, recentActivitiesSize).
			Return([]model.ReportWithNames{}, nil)

		svc := NewDashboardService(mockReports, mockPatients, nil)
		stats, err := svc.Stats(context.Background(), patientUserID, model.RolePatient)

		assert.NoError(t, err)
		dashboard, ok := stats.(*PatientDashboard)
		assert.True(t, ok)
		assert.Equal(t, int64(5), dashboard.TotalReports)
		mockReports.AssertExpectations(t)
		mockPatients.AssertExpectations(t)
	})

	t.Run("missing profile", func(t *testing.T) {
		mockPatients := new(MockPatientRepository)
		mockPatients.On("FindByUserID", mock.Anything, patientUserID).
			Return(nil, gorm.ErrRecordNotFound)

		svc := NewDashboardService(new(MockReportRepository), mockPatients, nil)
		_, err := svc.Stats(context.Background(), patientUserID, model.RolePatient)

		assert.ErrorIs(t, err, errors.ErrPatientNotFound)
	})
}

func TestDashboardService_AdminRoleHasNoDashboard(t *testing.T) {
	svc := NewDashboardService(new(MockReportRepository), new(MockPatientRepository), nil)
	_, err := svc.Stats(context.Background(), uuid.New(), model.RoleAdmin)
	assert.ErrorIs(t, err, errors.ErrForbidden)
}
