package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"aarogya/internal/auth"
	"aarogya/internal/errors"
	"aarogya/internal/model"
	"aarogya/internal/repository"
)

const bcryptCost = 10

// RegisterInput carries a registration request. The role-specific fields
// are read according to Role; the others are ignored.
type RegisterInput struct {
	Name           string
	Email          string
	Phone          string
	Password       string
	Role           model.Role
	Specialization string
	Address        string
	Age            int
	Gender         string
}

// UpdateProfileInput carries a profile update for the calling user.
type UpdateProfileInput struct {
	Name           string
	Phone          string
	Specialization string
	Address        string
	Age            *int
	Gender         string
}

// AuthResult is the outcome of registration or login. Token is empty when
// the account is awaiting admin approval; callers must not treat such a
// response as a session.
type AuthResult struct {
	User    *model.User
	Details *model.ProfileDetails
	Token   string
}

// Profile is a user's own record merged with its role-specific fields.
type Profile struct {
	User    *model.User
	Details *model.ProfileDetails
}

// AccountService orchestrates the account lifecycle: registration with
// the role-conditional approval gate, role-scoped login, admin login and
// profile maintenance.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, phone, password string, role model.Role) (*AuthResult, error)
	AdminLogin(ctx context.Context, username, password string) (*AuthResult, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, role model.Role, in UpdateProfileInput) (*Profile, error)
	ResetPassword(ctx context.Context, phone, newPassword string) error
}

type accountService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAccountService creates a new account service.
func NewAccountService(userRepo repository.UserRepository, jwtService *auth.JWTService) AccountService {
	return &accountService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Register creates a user and its role profile in one transaction.
// Patients are auto-approved and receive a token; doctors and labs start
// pending and must wait for the admin.
func (s *accountService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if !in.Role.SelfRegisterable() {
		return nil, errors.ErrInvalidRole
	}

	existing, err := s.userRepo.FindByEmailOrPhone(ctx, in.Email, in.Phone)
	if err == nil && existing != nil {
		return nil, errors.ErrUserExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	approvalStatus := model.ApprovalPending
	if in.Role == model.RolePatient {
		approvalStatus = model.ApprovalApproved
	}

	user := &model.User{
		ID:             uuid.New(),
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		PasswordHash:   string(hashedPassword),
		Role:           in.Role,
		ApprovalStatus: approvalStatus,
	}

	err = s.userRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		if err := repo.Create(ctx, user); err != nil {
			return err
		}
		return repo.CreateProfile(ctx, s.buildProfile(user.ID, in))
	})
	if err != nil {
		// The unique indexes resolve races the pre-check cannot see.
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	result := &AuthResult{
		User:    user,
		Details: detailsFromInput(in),
	}
	if approvalStatus == model.ApprovalApproved {
		token, err := s.jwtService.Generate(user.ID, user.Role)
		if err != nil {
			return nil, fmt.Errorf("generate token: %w", err)
		}
		result.Token = token
	}
	return result, nil
}

func (s *accountService) buildProfile(userID uuid.UUID, in RegisterInput) interface{} {
	switch in.Role {
	case model.RoleDoctor:
		return &model.DoctorProfile{UserID: userID, Specialization: in.Specialization}
	case model.RoleLab:
		return &model.LabProfile{UserID: userID, Address: in.Address}
	default:
		return &model.PatientProfile{UserID: userID, Age: in.Age, Gender: in.Gender}
	}
}

func detailsFromInput(in RegisterInput) *model.ProfileDetails {
	details := &model.ProfileDetails{}
	switch in.Role {
	case model.RoleDoctor:
		details.Specialization = in.Specialization
	case model.RoleLab:
		details.Address = in.Address
	default:
		age := in.Age
		details.Age = &age
		details.Gender = in.Gender
	}
	return details
}

// Login authenticates by the (phone, role) pair. A correct phone with the
// wrong role selection reads as "no such user" on purpose: role is part
// of the identity key. The approval gate is checked before the password
// so pending and rejected accounts get their own failure kinds.
func (s *accountService) Login(ctx context.Context, phone, password string, role model.Role) (*AuthResult, error) {
	user, err := s.userRepo.FindByPhoneAndRole(ctx, phone, role)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.Role == model.RoleDoctor || user.Role == model.RoleLab {
		switch user.ApprovalStatus {
		case model.ApprovalPending:
			return nil, errors.ErrAccountPending
		case model.ApprovalRejected:
			return nil, errors.ErrAccountRejected
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	token, err := s.jwtService.Generate(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	details, err := s.userRepo.RoleDetails(ctx, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("load role details: %w", err)
	}

	return &AuthResult{User: user, Details: details, Token: token}, nil
}

// AdminLogin looks up the admin account by name. Missing admin and wrong
// password are indistinguishable to the caller.
func (s *accountService) AdminLogin(ctx context.Context, username, password string) (*AuthResult, error) {
	admin, err := s.userRepo.FindAdminByName(ctx, username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	token, err := s.jwtService.Generate(admin.ID, admin.Role)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &AuthResult{User: admin, Details: &model.ProfileDetails{}, Token: token}, nil
}

// GetProfile returns the caller's own user record plus role fields.
func (s *accountService) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	details, err := s.userRepo.RoleDetails(ctx, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("load role details: %w", err)
	}
	return &Profile{User: user, Details: details}, nil
}

// UpdateProfile updates the caller's base record and role fields in one
// transaction. Email and role are immutable.
func (s *accountService) UpdateProfile(ctx context.Context, userID uuid.UUID, role model.Role, in UpdateProfileInput) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if in.Phone != "" && in.Phone != user.Phone {
		if _, err := s.userRepo.FindByPhoneExcluding(ctx, in.Phone, userID); err == nil {
			return nil, errors.ErrUserExists
		} else if err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("check phone: %w", err)
		}
		user.Phone = in.Phone
	}
	if in.Name != "" {
		user.Name = in.Name
	}

	err = s.userRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		if err := repo.Update(ctx, user); err != nil {
			return err
		}
		details := model.ProfileDetails{
			Specialization: in.Specialization,
			Address:        in.Address,
			Age:            in.Age,
			Gender:         in.Gender,
		}
		// Role fields are written only when the request carries them;
		// a name-only update must not blank them.
		if details == (model.ProfileDetails{}) {
			return nil
		}
		return repo.UpdateRoleDetails(ctx, userID, role, details)
	})
	if err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.ErrUserExists
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return s.GetProfile(ctx, userID)
}

// ResetPassword rehashes and stores a new password for the account with
// the given phone. The outcome is deliberately generic so the endpoint
// cannot be used to probe for registered numbers.
func (s *accountService) ResetPassword(ctx context.Context, phone, newPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := s.userRepo.UpdatePasswordByPhone(ctx, phone, string(hashedPassword)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
