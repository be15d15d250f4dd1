package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"aarogya/internal/auth"
	"aarogya/internal/errors"
	"aarogya/internal/model"
	"aarogya/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmailOrPhone(ctx context.Context, email, phone string) (*model.User, error) {
	args := m.Called(ctx, email, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByPhoneAndRole(ctx context.Context, phone string, role model.Role) (*model.User, error) {
	args := m.Called(ctx, phone, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByPhoneExcluding(ctx context.Context, phone string, excludeID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, phone, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindAdminByName(ctx context.Context, name string) (*model.User, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePasswordByPhone(ctx context.Context, phone, passwordHash string) (int64, error) {
	args := m.Called(ctx, phone, passwordHash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UpdateApprovalStatus(ctx context.Context, id uuid.UUID, status model.ApprovalStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockUserRepository) CreateProfile(ctx context.Context, profile interface{}) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockUserRepository) RoleDetails(ctx context.Context, userID uuid.UUID, role model.Role) (*model.ProfileDetails, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProfileDetails), args.Error(1)
}

func (m *MockUserRepository) UpdateRoleDetails(ctx context.Context, userID uuid.UUID, role model.Role, details model.ProfileDetails) error {
	args := m.Called(ctx, userID, role, details)
	return args.Error(0)
}

func (m *MockUserRepository) ListPending(ctx context.Context) ([]model.UserWithDetails, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserWithDetails), args.Error(1)
}

func (m *MockUserRepository) ListNonAdmin(ctx context.Context, role model.Role, status model.ApprovalStatus) ([]model.UserWithDetails, error) {
	args := m.Called(ctx, role, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserWithDetails), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountNonAdmin(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountPendingApprovals(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// WithTransaction runs fn against the same mock so the transactional
// writes can be asserted like any other call.
func (m *MockUserRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.UserRepository) error) error {
	args := m.Called(ctx)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx, m)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret", 24*time.Hour)
}

func TestAccountService_Register(t *testing.T) {
	tests := []struct {
		name           string
		input          RegisterInput
		setupMock      func(*MockUserRepository)
		expectedError  error
		expectedStatus model.ApprovalStatus
		expectToken    bool
	}{
		{
			name: "patient is auto-approved and gets a token",
			input: RegisterInput{
				Name: "A", Email: "a@x.com", Phone: "111", Password: "abcdef",
				Role: model.RolePatient, Age: 30, Gender: "female",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmailOrPhone", mock.Anything, "a@x.com", "111").Return(nil, gorm.ErrRecordNotFound)
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				m.On("CreateProfile", mock.Anything, mock.AnythingOfType("*model.PatientProfile")).Return(nil)
			},
			expectedStatus: model.ApprovalApproved,
			expectToken:    true,
		},
		{
			name: "doctor starts pending and gets no token",
			input: RegisterInput{
				Name: "A", Email: "a@x.com", Phone: "111", Password: "abcdef",
				Role: model.RoleDoctor, Specialization: "Cardiology",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmailOrPhone", mock.Anything, "a@x.com", "111").Return(nil, gorm.ErrRecordNotFound)
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				m.On("CreateProfile", mock.Anything, mock.AnythingOfType("*model.DoctorProfile")).Return(nil)
			},
			expectedStatus: model.ApprovalPending,
			expectToken:    false,
		},
		{
			name: "lab starts pending and gets no token",
			input: RegisterInput{
				Name: "L", Email: "lab@x.com", Phone: "222", Password: "abcdef",
				Role: model.RoleLab, Address: "12 Main St",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmailOrPhone", mock.Anything, "lab@x.com", "222").Return(nil, gorm.ErrRecordNotFound)
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				m.On("CreateProfile", mock.Anything, mock.AnythingOfType("*model.LabProfile")).Return(nil)
			},
			expectedStatus: model.ApprovalPending,
			expectToken:    false,
		},
		{
			name: "duplicate email or phone",
			input: RegisterInput{
				Name: "A", Email: "a@x.com", Phone: "111", Password: "abcdef",
				Role: model.RolePatient,
			},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmailOrPhone", mock.Anything, "a@x.com", "111").
					Return(&model.User{Email: "a@x.com"}, nil)
			},
			expectedError: errors.ErrUserExists,
		},
		{
			name: "racing duplicate caught by unique index",
			input: RegisterInput{
				Name: "A", Email: "a@x.com", Phone: "111", Password: "abcdef",
				Role: model.RolePatient,
			},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmailOrPhone", mock.Anything, "a@x.com", "111").Return(nil, gorm.ErrRecordNotFound)
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: errors.ErrUserExists,
		},
		{
			name: "admin cannot self-register",
			input: RegisterInput{
				Name: "A", Email: "a@x.com", Phone: "111", Password: "abcdef",
				Role: model.RoleAdmin,
			},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: errors.ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewAccountService(mockRepo, newTestJWTService())
			result, err := svc.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.Equal(t, tt.expectedStatus, result.User.ApprovalStatus)
				assert.Equal(t, tt.input.Role, result.User.Role)
				assert.NotEmpty(t, result.User.PasswordHash)
				assert.NotEqual(t, tt.input.Password, result.User.PasswordHash)
				if tt.expectToken {
					assert.NotEmpty(t, result.Token)
				} else {
					assert.Empty(t, result.Token)
				}
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAccountService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("abcdef"), 10)
	userID := uuid.New()

	tests := []struct {
		name          string
		phone         string
		password      string
		role          model.Role
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful patient login",
			phone:    "111",
			password: "abcdef",
			role:     model.RolePatient,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByPhoneAndRole", mock.Anything, "111", model.RolePatient).Return(&model.User{
					ID:             userID,
					Phone:          "111",
					PasswordHash:   string(hashedPassword),
					Role:           model.RolePatient,
					ApprovalStatus: model.ApprovalApproved,
				}, nil)
				m.On("RoleDetails", mock.Anything, userID, model.RolePatient).
					Return(&model.ProfileDetails{Gender: "female"}, nil)
			},
		},
		{
			name:     "approved doctor login succeeds",
			phone:    "111",
			password: "abcdef",
			role:     model.RoleDoctor,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByPhoneAndRole", mock.Anything, "111", model.RoleDoctor).Return(&model.User{
					ID:             userID,
					Phone:          "111",
					PasswordHash:   string(hashedPassword),
					Role:           model.RoleDoctor,
					ApprovalStatus: model.ApprovalApproved,
				}, nil)
				m.On("RoleDetails", mock.Anything, userID, model.RoleDoctor).
					Return(&model.ProfileDetails{Specialization: "Cardiology"}, nil)
			},
		},
		{
			name:     "correct phone but wrong role reads as not found",
			phone:    "111",
			password: "abcdef",
			role:     model.RoleLab,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByPhoneAndRole", mock.Anything, "111", model.RoleLab).
					Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrUserNotFound,
		},
		{
			name:     "pending doctor cannot log in even with correct credentials",
			phone:    "111",
			password: "abcdef",
			role:     model.RoleDoctor,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByPhoneAndRole", mock.Anything, "111", model.RoleDoctor).Return(&model.User{
					ID:             userID,
					PasswordHash:   string(hashedPassword),
					Role:           model.RoleDoctor,
					ApprovalStatus: model.ApprovalPending,
				}, nil)
			},
			expectedError: errors.ErrAccountPending,
		},
		{
			name:     "rejected lab stays rejected",
			phone:    "111",
			password: "abcdef",
			role:     model.RoleLab,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByPhoneAndRole", mock.Anything, "111", model.RoleLab).Return(&model.User{
					ID:             userID,
					PasswordHash:   string(hashedPassword),
					Role:           model.RoleLab,
					ApprovalStatus: model.ApprovalRejected,
				}, nil)
			},
			expectedError: errors.ErrAccountRejected,
		},
		{
			name:     "wrong password",
			phone:    "111",
			password: "wrong",
			role:     model.RolePatient,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByPhoneAndRole", mock.Anything, "111", model.RolePatient).Return(&model.User{
					ID:             userID,
					PasswordHash:   string(hashedPassword),
					Role:           model.RolePatient,
					ApprovalStatus: model.ApprovalApproved,
				}, nil)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewAccountService(mockRepo, newTestJWTService())
			result, err := svc.Login(context.Background(), tt.phone, tt.password, tt.role)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.NotEmpty(t, result.Token)
				assert.Equal(t, tt.role, result.User.Role)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

// Registration, the approval gate and approval itself compose into the
// full doctor onboarding story.
func TestAccountService_DoctorApprovalFlow(t *testing.T) {
	mockRepo := new(MockUserRepository)
	jwtService := newTestJWTService()
	accounts := NewAccountService(mockRepo, jwtService)
	approvals := NewApprovalService(mockRepo)

	// Register a doctor: pending, no token.
	mockRepo.On("FindByEmailOrPhone", mock.Anything, "a@x.com", "111").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("WithTransaction", mock.Anything).Return(nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
	mockRepo.On("CreateProfile", mock.Anything, mock.AnythingOfType("*model.DoctorProfile")).Return(nil)

	result, err := accounts.Register(context.Background(), RegisterInput{
		Name: "A", Email: "a@x.com", Phone: "111", Password: "abcdef",
		Role: model.RoleDoctor, Specialization: "Cardiology",
	})
	assert.NoError(t, err)
	assert.Equal(t, model.ApprovalPending, result.User.ApprovalStatus)
	assert.Empty(t, result.Token)

	doctor := result.User

	// Login while pending fails with the approval gate, not bad credentials.
	mockRepo.On("FindByPhoneAndRole", mock.Anything, "111", model.RoleDoctor).Return(doctor, nil)
	_, err = accounts.Login(context.Background(), "111", "abcdef", model.RoleDoctor)
	assert.ErrorIs(t, err, errors.ErrAccountPending)

	// Admin approves.
	mockRepo.On("FindByID", mock.Anything, doctor.ID).Return(doctor, nil)
	mockRepo.On("UpdateApprovalStatus", mock.Anything, doctor.ID, model.ApprovalApproved).
		Run(func(args mock.Arguments) { doctor.ApprovalStatus = model.ApprovalApproved }).
		Return(nil)
	assert.NoError(t, approvals.Approve(context.Background(), doctor.ID))

	// Same credentials now succeed and return a token.
	mockRepo.On("RoleDetails", mock.Anything, doctor.ID, model.RoleDoctor).
		Return(&model.ProfileDetails{Specialization: "Cardiology"}, nil)
	login, err := accounts.Login(context.Background(), "111", "abcdef", model.RoleDoctor)
	assert.NoError(t, err)
	assert.NotEmpty(t, login.Token)

	claims, err := jwtService.Validate(login.Token)
	assert.NoError(t, err)
	assert.Equal(t, doctor.ID, claims.UserID)
	assert.Equal(t, model.RoleDoctor, claims.Role)
}

func TestAccountService_AdminLogin(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Admin@123"), 10)
	adminID := uuid.New()

	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful admin login",
			username: "Admin",
			password: "Admin@123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindAdminByName", mock.Anything, "Admin").Return(&model.User{
					ID:             adminID,
					Name:           "Admin",
					PasswordHash:   string(hashedPassword),
					Role:           model.RoleAdmin,
					ApprovalStatus: model.ApprovalApproved,
				}, nil)
			},
		},
		{
			name:     "unknown admin is invalid credentials, not not-found",
			username: "Nobody",
			password: "Admin@123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindAdminByName", mock.Anything, "Nobody").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "wrong admin password",
			username: "Admin",
			password: "wrong",
			setupMock: func(m *MockUserRepository) {
				m.On("FindAdminByName", mock.Anything, "Admin").Return(&model.User{
					ID:           adminID,
					PasswordHash: string(hashedPassword),
					Role:         model.RoleAdmin,
				}, nil)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewAccountService(mockRepo, newTestJWTService())
			result, err := svc.AdminLogin(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, result.Token)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAccountService_UpdateProfile_NameOnlyKeepsRoleFields(t *testing.T) {
	userID := uuid.New()
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{
		ID:    userID,
		Name:  "Dr A",
		Phone: "111",
		Role:  model.RoleDoctor,
	}, nil)
	mockRepo.On("WithTransaction", mock.Anything).Return(nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
	mockRepo.On("RoleDetails", mock.Anything, userID, model.RoleDoctor).
		Return(&model.ProfileDetails{Specialization: "Cardiology"}, nil)

	svc := NewAccountService(mockRepo, newTestJWTService())
	profile, err := svc.UpdateProfile(context.Background(), userID, model.RoleDoctor, UpdateProfileInput{Name: "Dr B"})

	assert.NoError(t, err)
	assert.Equal(t, "Dr B", profile.User.Name)
	assert.Equal(t, "Cardiology", profile.Details.Specialization)
	mockRepo.AssertNotCalled(t, "UpdateRoleDetails", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountService_UpdateProfile_WritesRoleFieldsWhenGiven(t *testing.T) {
	userID := uuid.New()
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{
		ID:   userID,
		Name: "Dr A",
		Role: model.RoleDoctor,
	}, nil)
	mockRepo.On("WithTransaction", mock.Anything).Return(nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
	mockRepo.On("UpdateRoleDetails", mock.Anything, userID, model.RoleDoctor,
		model.ProfileDetails{Specialization: "Neurology"}).Return(nil)
	mockRepo.On("RoleDetails", mock.Anything, userID, model.RoleDoctor).
		Return(&model.ProfileDetails{Specialization: "Neurology"}, nil)

	svc := NewAccountService(mockRepo, newTestJWTService())
	profile, err := svc.UpdateProfile(context.Background(), userID, model.RoleDoctor, UpdateProfileInput{Specialization: "Neurology"})

	assert.NoError(t, err)
	assert.Equal(t, "Neurology", profile.Details.Specialization)
	mockRepo.AssertExpectations(t)
}

func TestAccountService_UpdateProfile_PhoneConflict(t *testing.T) {
	userID := uuid.New()
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{
		ID:    userID,
		Phone: "111",
		Role:  model.RolePatient,
	}, nil)
	mockRepo.On("FindByPhoneExcluding", mock.Anything, "222", userID).
		Return(&model.User{Phone: "222"}, nil)

	svc := NewAccountService(mockRepo, newTestJWTService())
	_, err := svc.UpdateProfile(context.Background(), userID, model.RolePatient, UpdateProfileInput{Phone: "222"})
	assert.ErrorIs(t, err, errors.ErrUserExists)
	mockRepo.AssertExpectations(t)
}
