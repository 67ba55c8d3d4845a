package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nsp-portal/scholarship-service/internal/models"
	"github.com/nsp-portal/scholarship-service/internal/repositories"
)

type StudentProfilePostgreSQL struct {
	db *gorm.DB
}

func NewStudentProfilePostgreSQL(db *gorm.DB) repositories.StudentProfileRepository {
	return &StudentProfilePostgreSQL{db: db}
}

func (s *StudentProfilePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *StudentProfilePostgreSQL) Create(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error {
	if err := s.getDB(tx).WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create student profile: %w", translateError(err))
	}
	return nil
}

func (s *StudentProfilePostgreSQL) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	err := s.getDB(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &profile, nil
}

func (s *StudentProfilePostgreSQL) Update(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error {
	if err := s.getDB(tx).WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to update student profile: %w", translateError(err))
	}
	return nil
}

type InstituteProfilePostgreSQL struct {
	db *gorm.DB
}

func NewInstituteProfilePostgreSQL(db *gorm.DB) repositories.InstituteProfileRepository {
	return &InstituteProfilePostgreSQL{db: db}
}

func (i *InstituteProfilePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return i.db
}

func (i *InstituteProfilePostgreSQL) Create(ctx context.Context, tx *gorm.DB, profile *models.InstituteProfile) error {
	if err := i.getDB(tx).WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create institute profile: %w", translateError(err))
	}
	return nil
}

func (i *InstituteProfilePostgreSQL) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.InstituteProfile, error) {
	var profile models.InstituteProfile
	err := i.getDB(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &profile, nil
}

func (i *InstituteProfilePostgreSQL) GetByCode(ctx context.Context, tx *gorm.DB, instituteCode string) (*models.InstituteProfile, error) {
	var profile models.InstituteProfile
	err := i.getDB(tx).WithContext(ctx).
		Where("institute_code = ?", instituteCode).
		First(&profile).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &profile, nil
}

func (i *InstituteProfilePostgreSQL) Update(ctx context.Context, tx *gorm.DB, profile *models.InstituteProfile) error {
	if err := i.getDB(tx).WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to update institute profile: %w", translateError(err))
	}
	return nil
}

func (i *InstituteProfilePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.RegistrationFilters) ([]*models.InstituteProfile, int64, error) {
	query := i.getDB(tx).WithContext(ctx).Model(&models.InstituteProfile{})

	if filters.Status != nil {
		query = query.Where("registration_status = ?", *filters.Status)
	}
	if filters.State != nil {
		query = query.Where("state = ?", *filters.State)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, filters.Limit, filters.Offset, "", "", nil)

	var profiles []*models.InstituteProfile
	if err := query.Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

// UpdateRegistrationGuarded writes the new registration status and
// onboarding audit slots guarded on the previous status. The legacy
// registration_approved boolean stays in sync with ACTIVE.
func (i *InstituteProfilePostgreSQL) UpdateRegistrationGuarded(ctx context.Context, tx *gorm.DB, profile *models.InstituteProfile, expected models.RegistrationStatus) error {
	result := i.getDB(tx).WithContext(ctx).
		Model(&models.InstituteProfile{}).
		Where("user_id = ? AND registration_status = ?", profile.UserID, expected).
		Updates(map[string]interface{}{
			"registration_status":       profile.RegistrationStatus,
			"registration_approved":     profile.RegistrationStatus == models.RegistrationActive,
			"state_approval_date":       profile.StateApprovalDate,
			"state_approval_remarks":    profile.StateApprovalRemarks,
			"state_approved_by":         profile.StateApprovedBy,
			"ministry_approval_date":    profile.MinistryApprovalDate,
			"ministry_approval_remarks": profile.MinistryApprovalRemarks,
			"ministry_approved_by":      profile.MinistryApprovedBy,
			"updated_at":                time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update registration status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrStaleStatus
	}
	return nil
}
