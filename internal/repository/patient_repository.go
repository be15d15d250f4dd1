package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aarogya/internal/model"
)

// PatientRepository defines patient lookup and update operations.
type PatientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error)
	Search(ctx context.Context, query string) ([]model.PatientSummary, error)
	Summary(ctx context.Context, id uuid.UUID) (*model.PatientSummary, error)
	// UpdateDetails writes the user and profile rows of one patient in a
	// single transaction.
	UpdateDetails(ctx context.Context, patient *model.PatientProfile, upd model.PatientUpdate) error
}

type patientRepository struct {
	db *gorm.DB
}

// NewPatientRepository creates a new patient repository.
func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error) {
	var patient model.PatientProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error) {
	var patient model.PatientProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&patient).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

// Search matches patients by name, email or phone, ordered by name.
func (r *patientRepository) Search(ctx context.Context, query string) ([]model.PatientSummary, error) {
	pattern := "%" + query + "%"
	var patients []model.PatientSummary
	err := r.db.WithContext(ctx).Table("patient_profiles p").
		Select("p.id, u.name, u.email, u.phone, p.age, p.gender, p.created_at").
		Joins("JOIN users u ON u.id = p.user_id").
		Where("u.name LIKE ? OR u.email LIKE ? OR u.phone LIKE ?", pattern, pattern, pattern).
		Order("u.name ASC").
		Scan(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

// UpdateDetails applies a partial update across the patient's user row and
// profile row; empty fields keep their current value.
func (r *patientRepository) UpdateDetails(ctx context.Context, patient *model.PatientProfile, upd model.PatientUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userUpdates := map[string]interface{}{}
		if upd.Name != "" {
			userUpdates["name"] = upd.Name
		}
		if upd.Email != "" {
			userUpdates["email"] = upd.Email
		}
		if upd.Phone != "" {
			userUpdates["phone"] = upd.Phone
		}
		if len(userUpdates) > 0 {
			if err := tx.Model(&model.User{}).Where("id = ?", patient.UserID).Updates(userUpdates).Error; err != nil {
				return err
			}
		}

		profileUpdates := map[string]interface{}{}
		if upd.Age != nil {
			profileUpdates["age"] = *upd.Age
		}
		if upd.Gender != "" {
			profileUpdates["gender"] = upd.Gender
		}
		if len(profileUpdates) > 0 {
			if err := tx.Model(&model.PatientProfile{}).Where("id = ?", patient.ID).Updates(profileUpdates).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Summary loads one patient joined with its user row.
func (r *patientRepository) Summary(ctx context.Context, id uuid.UUID) (*model.PatientSummary, error) {
	var patient model.PatientSummary
	err := r.db.WithContext(ctx).Table("patient_profiles p").
		Select("p.id, u.name, u.email, u.phone, p.age, p.gender, p.created_at").
		Joins("JOIN users u ON u.id = p.user_id").
		Where("p.id = ?", id).
		Scan(&patient).Error
	if err != nil {
		return nil, err
	}
	if patient.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &patient, nil
}
