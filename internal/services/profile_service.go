package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/nsp-portal/scholarship-service/internal/models"
	"github.com/nsp-portal/scholarship-service/internal/repositories"
	"github.com/nsp-portal/scholarship-service/internal/validator"
)

type profileService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewProfileService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) ProfileService {
	return &profileService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
	}
}

func (s *profileService) CreateStudentProfile(ctx context.Context, req *StudentProfileRequest, userID string) (*models.StudentProfile, error) {
	s.logger.Info("Creating student profile", "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.StudentProfile().GetByUserID(ctx, nil, userID); err == nil {
		return nil, ErrDuplicateProfile
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}

	profile := s.applyProfileRequest(&models.StudentProfile{UserID: userID}, req)
	if err := s.repo.StudentProfile().Create(ctx, nil, profile); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateProfile
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return profile, nil
}

func (s *profileService) GetStudentProfile(ctx context.Context, userID string) (*models.StudentProfile, error) {
	profile, err := s.repo.StudentProfile().GetByUserID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) UpdateStudentProfile(ctx context.Context, req *StudentProfileRequest, userID string) (*models.StudentProfile, error) {
	s.logger.Info("Updating student profile", "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	profile, err := s.repo.StudentProfile().GetByUserID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile = s.applyProfileRequest(profile, req)
	if err := s.repo.StudentProfile().Update(ctx, nil, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}

func (s *profileService) applyProfileRequest(profile *models.StudentProfile, req *StudentProfileRequest) *models.StudentProfile {
	profile.Name = req.Name
	profile.DateOfBirth = req.DateOfBirth
	profile.Gender = req.Gender
	profile.DomicileState = req.DomicileState
	profile.District = req.District
	profile.AadharNumber = req.AadharNumber
	profile.FatherName = req.FatherName
	profile.MotherName = req.MotherName
	profile.Category = req.Category
	profile.Address = req.Address
	profile.Pincode = req.Pincode
	profile.BankAccountNumber = req.BankAccountNumber
	profile.BankName = req.BankName
	profile.IFSCCode = req.IFSCCode
	profile.InstituteCode = req.InstituteCode
	return profile
}
