package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/nsp-portal/scholarship-service/internal/cache"
	"github.com/nsp-portal/scholarship-service/internal/models"
	"github.com/nsp-portal/scholarship-service/internal/repositories"
)

type ApplicationPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewApplicationPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ApplicationRepository {
	return &ApplicationPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise the default DB.
func (a *ApplicationPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}

func (a *ApplicationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, app *models.ScholarshipApplication) error {
	if err := a.getDB(tx).WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", translateError(err))
	}
	cache.SafeInvalidatePattern(ctx, a.cacheManager.List, "*")
	return nil
}

func (a *ApplicationPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ScholarshipApplication, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var app models.ScholarshipApplication

	err := a.cacheManager.Application.CacheOrExecute(ctx, cacheKey, &app, cache.ApplicationCacheConfig.TTL, func() (interface{}, error) {
		var dbApp models.ScholarshipApplication
		if err := a.getDB(tx).WithContext(ctx).First(&dbApp, id).Error; err != nil {
			return nil, translateError(err)
		}
		return &dbApp, nil
	})
	if err != nil {
		return nil, err
	}

	return &app, nil
}

func (a *ApplicationPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.ScholarshipApplication, error) {
	var app models.ScholarshipApplication
	err := a.getDB(tx).WithContext(ctx).
		Preload("Student").
		Preload("Scheme").
		Preload("Documents").
		First(&app, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &app, nil
}

var applicationSortColumns = map[string]bool{
	"application_date": true,
	"status":           true,
	"created_at":       true,
}

func (a *ApplicationPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ApplicationFilters) ([]*models.ScholarshipApplication, int64, error) {
	query := a.getDB(tx).WithContext(ctx).Model(&models.ScholarshipApplication{})
	query = a.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder, applicationSortColumns)

	var apps []*models.ScholarshipApplication
	if err := query.Preload("Student").Preload("Scheme").Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

func (a *ApplicationPostgreSQL) Count(ctx context.Context, tx *gorm.DB, filters repositories.ApplicationFilters) (int64, error) {
	query := a.getDB(tx).WithContext(ctx).Model(&models.ScholarshipApplication{})
	query = a.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (a *ApplicationPostgreSQL) ExistsLive(ctx context.Context, tx *gorm.DB, studentID string, schemeID uint) (bool, error) {
	var count int64
	err := a.getDB(tx).WithContext(ctx).
		Model(&models.ScholarshipApplication{}).
		Where("student_id = ? AND scheme_id = ?", studentID, schemeID).
		Where("status NOT IN ?", []models.ApplicationStatus{
			models.StatusRejectedByInstitute,
			models.StatusRejectedByState,
			models.StatusRejectedByMinistry,
		}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatusGuarded writes the new status and the audit slots in one
// statement guarded on the previous status. Zero affected rows means a
// concurrent transition won the race.
func (a *ApplicationPostgreSQL) UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, app *models.ScholarshipApplication, expected models.ApplicationStatus) error {
	result := a.getDB(tx).WithContext(ctx).
		Model(&models.ScholarshipApplication{}).
		Where("id = ? AND status = ?", app.ID, expected).
		Updates(map[string]interface{}{
			"status":                         app.Status,
			"institute_verification_date":    app.InstituteVerificationDate,
			"institute_verification_remarks": app.InstituteVerificationRemarks,
			"institute_verified_by":          app.InstituteVerifiedBy,
			"state_verification_date":        app.StateVerificationDate,
			"state_verification_remarks":     app.StateVerificationRemarks,
			"state_verified_by":              app.StateVerifiedBy,
			"ministry_approval_date":         app.MinistryApprovalDate,
			"ministry_approval_remarks":      app.MinistryApprovalRemarks,
			"ministry_approved_by":           app.MinistryApprovedBy,
			"updated_at":                     time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update application status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrStaleStatus
	}

	a.cacheManager.InvalidateApplication(ctx, app.ID)
	return nil
}

func (a *ApplicationPostgreSQL) applyFilters(query *gorm.DB, filters repositories.ApplicationFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("scholarship_applications.status = ?", *filters.Status)
	}
	if filters.StudentID != nil {
		query = query.Where("scholarship_applications.student_id = ?", *filters.StudentID)
	}
	if filters.InstituteID != nil {
		query = query.Where("scholarship_applications.institute_id = ?", *filters.InstituteID)
	}
	if filters.SchemeID != nil {
		query = query.Where("scholarship_applications.scheme_id = ?", *filters.SchemeID)
	}
	if filters.DomicileState != nil {
		query = query.Joins("JOIN student_profiles ON student_profiles.user_id = scholarship_applications.student_id").
			Where("student_profiles.domicile_state = ?", *filters.DomicileState)
	}
	if filters.DateFrom != nil {
		query = query.Where("scholarship_applications.application_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("scholarship_applications.application_date <= ?", *filters.DateTo)
	}
	return query
}
