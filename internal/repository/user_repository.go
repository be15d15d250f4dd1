package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aarogya/internal/model"
)

// UserRepository defines account persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmailOrPhone(ctx context.Context, email, phone string) (*model.User, error)
	FindByPhoneAndRole(ctx context.Context, phone string, role model.Role) (*model.User, error)
	FindByPhoneExcluding(ctx context.Context, phone string, excludeID uuid.UUID) (*model.User, error)
	FindAdminByName(ctx context.Context, name string) (*model.User, error)
	UpdatePasswordByPhone(ctx context.Context, phone, passwordHash string) (int64, error)
	UpdateApprovalStatus(ctx context.Context, id uuid.UUID, status model.ApprovalStatus) error
	CreateProfile(ctx context.Context, profile interface{}) error
	RoleDetails(ctx context.Context, userID uuid.UUID, role model.Role) (*model.ProfileDetails, error)
	UpdateRoleDetails(ctx context.Context, userID uuid.UUID, role model.Role, details model.ProfileDetails) error
	ListPending(ctx context.Context) ([]model.UserWithDetails, error)
	ListNonAdmin(ctx context.Context, role model.Role, status model.ApprovalStatus) ([]model.UserWithDetails, error)
	CountByRole(ctx context.Context, role model.Role) (int64, error)
	CountNonAdmin(ctx context.Context) (int64, error)
	CountPendingApprovals(ctx context.Context) (int64, error)
	// WithTransaction executes fn against a repository bound to one
	// transaction; user and role-profile writes must land together or
	// not at all.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmailOrPhone(ctx context.Context, email, phone string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ? OR phone = ?", email, phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByPhoneAndRole(ctx context.Context, phone string, role model.Role) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("phone = ? AND role = ?", phone, role).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByPhoneExcluding(ctx context.Context, phone string, excludeID uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("phone = ? AND id != ?", phone, excludeID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAdminByName(ctx context.Context, name string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("role = ? AND name = ?", model.RoleAdmin, name).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdatePasswordByPhone(ctx context.Context, phone, passwordHash string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("phone = ?", phone).
		Update("password_hash", passwordHash)
	return res.RowsAffected, res.Error
}

func (r *userRepository) UpdateApprovalStatus(ctx context.Context, id uuid.UUID, status model.ApprovalStatus) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("approval_status", status).Error
}

// CreateProfile inserts a role-specific profile row. The caller passes one
// of the profile model structs with UserID already set.
func (r *userRepository) CreateProfile(ctx context.Context, profile interface{}) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// RoleDetails loads the role-variant fields for a user. A missing profile
// row yields empty details rather than an error, matching the API's
// merge-into-user response shape.
func (r *userRepository) RoleDetails(ctx context.Context, userID uuid.UUID, role model.Role) (*model.ProfileDetails, error) {
	details := &model.ProfileDetails{}
	switch role {
	case model.RoleDoctor:
		var p model.DoctorProfile
		if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return details, nil
			}
			return nil, err
		}
		details.Specialization = p.Specialization
	case model.RoleLab:
		var p model.LabProfile
		if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return details, nil
			}
			return nil, err
		}
		details.Address = p.Address
	case model.RolePatient:
		var p model.PatientProfile
		if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return details, nil
			}
			return nil, err
		}
		age := p.Age
		details.Age = &age
		details.Gender = p.Gender
	case model.RoleAdmin:
		// admins carry no role profile
	}
	return details, nil
}

// UpdateRoleDetails writes the role-variant fields for a user. Empty
// fields keep their current value so partial updates cannot blank a
// profile.
func (r *userRepository) UpdateRoleDetails(ctx context.Context, userID uuid.UUID, role model.Role, details model.ProfileDetails) error {
	switch role {
	case model.RoleDoctor:
		if details.Specialization == "" {
			return nil
		}
		return r.db.WithContext(ctx).Model(&model.DoctorProfile{}).
			Where("user_id = ?", userID).
			Update("specialization", details.Specialization).Error
	case model.RoleLab:
		if details.Address == "" {
			return nil
		}
		return r.db.WithContext(ctx).Model(&model.LabProfile{}).
			Where("user_id = ?", userID).
			Update("address", details.Address).Error
	case model.RolePatient:
		updates := map[string]interface{}{}
		if details.Gender != "" {
			updates["gender"] = details.Gender
		}
		if details.Age != nil {
			updates["age"] = *details.Age
		}
		if len(updates) == 0 {
			return nil
		}
		return r.db.WithContext(ctx).Model(&model.PatientProfile{}).
			Where("user_id = ?", userID).
			Updates(updates).Error
	}
	return nil
}

func (r *userRepository) joinedUsers(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("users u").
		Select("u.id, u.name, u.email, u.phone, u.role, u.approval_status, u.created_at, d.specialization, l.address").
		Joins("LEFT JOIN doctor_profiles d ON d.user_id = u.id").
		Joins("LEFT JOIN lab_profiles l ON l.user_id = u.id")
}

func (r *userRepository) ListPending(ctx context.Context) ([]model.UserWithDetails, error) {
	var users []model.UserWithDetails
	err := r.joinedUsers(ctx).
		Where("u.role IN ? AND u.approval_status = ?",
			[]model.Role{model.RoleDoctor, model.RoleLab}, model.ApprovalPending).
		Order("u.created_at DESC").
		Scan(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListNonAdmin lists all non-admin users, optionally filtered by role and
// approval status, newest first.
func (r *userRepository) ListNonAdmin(ctx context.Context, role model.Role, status model.ApprovalStatus) ([]model.UserWithDetails, error) {
	q := r.joinedUsers(ctx).Where("u.role != ?", model.RoleAdmin)
	if role != "" {
		q = q.Where("u.role = ?", role)
	}
	if status != "" {
		q = q.Where("u.approval_status = ?", status)
	}
	var users []model.UserWithDetails
	if err := q.Order("u.created_at DESC").Scan(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *userRepository) CountNonAdmin(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("role != ?", model.RoleAdmin).Count(&count).Error
	return count, err
}

func (r *userRepository) CountPendingApprovals(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("role IN ? AND approval_status = ?",
			[]model.Role{model.RoleDoctor, model.RoleLab}, model.ApprovalPending).
		Count(&count).Error
	return count, err
}

// WithTransaction executes a function within a database transaction.
func (r *userRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &userRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
