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

// ApprovalService is the admin-side approval workflow over doctor and lab
// accounts, plus the admin listings and stats built on the same records.
type ApprovalService interface {
	ListPending(ctx context.Context) ([]model.UserWithDetails, error)
	Approve(ctx context.Context, userID uuid.UUID) error
	Reject(ctx context.Context, userID uuid.UUID) error
	ListUsers(ctx context.Context, role model.Role, status model.ApprovalStatus) ([]model.UserWithDetails, error)
	Stats(ctx context.Context) (*model.AdminStats, error)
}

type approvalService struct {
	userRepo repository.UserRepository
}

// NewApprovalService creates a new approval service.
func NewApprovalService(userRepo repository.UserRepository) ApprovalService {
	return &approvalService{userRepo: userRepo}
}

// ListPending returns all doctor and lab accounts awaiting approval,
// newest first, with their role fields joined.
func (s *approvalService) ListPending(ctx context.Context) ([]model.UserWithDetails, error) {
	users, err := s.userRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return users, nil
}

// Approve transitions a pending doctor or lab account to approved. The
// user must log in afterward; no token is issued here.
func (s *approvalService) Approve(ctx context.Context, userID uuid.UUID) error {
	return s.resolve(ctx, userID, model.ApprovalApproved)
}

// Reject transitions a pending doctor or lab account to rejected.
func (s *approvalService) Reject(ctx context.Context, userID uuid.UUID) error {
	return s.resolve(ctx, userID, model.ApprovalRejected)
}

func (s *approvalService) resolve(ctx context.Context, userID uuid.UUID, status model.ApprovalStatus) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	if user.Role != model.RoleDoctor && user.Role != model.RoleLab {
		return errors.ErrUserNotFound
	}
	if user.ApprovalStatus != model.ApprovalPending {
		return errors.ErrApprovalResolved
	}
	if err := s.userRepo.UpdateApprovalStatus(ctx, userID, status); err != nil {
		return fmt.Errorf("update approval status: %w", err)
	}
	return nil
}

// ListUsers returns all non-admin users, optionally filtered by role and
// approval status.
func (s *approvalService) ListUsers(ctx context.Context, role model.Role, status model.ApprovalStatus) ([]model.UserWithDetails, error) {
	users, err := s.userRepo.ListNonAdmin(ctx, role, status)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Stats aggregates the counts shown on the admin dashboard.
func (s *approvalService) Stats(ctx context.Context) (*model.AdminStats, error) {
	stats := &model.AdminStats{}
	var err error
	if stats.TotalUsers, err = s.userRepo.CountNonAdmin(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.PendingApprovals, err = s.userRepo.CountPendingApprovals(ctx); err != nil {
		return nil, fmt.Errorf("count pending: %w", err)
	}
	if stats.Doctors, err = s.userRepo.CountByRole(ctx, model.RoleDoctor); err != nil {
		return nil, fmt.Errorf("count doctors: %w", err)
	}
	if stats.Labs, err = s.userRepo.CountByRole(ctx, model.RoleLab); err != nil {
		return nil, fmt.Errorf("count labs: %w", err)
	}
	if stats.Patients, err = s.userRepo.CountByRole(ctx, model.RolePatient); err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}
	return stats, nil
}
