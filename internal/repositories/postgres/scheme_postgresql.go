package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/nsp-portal/scholarship-service/internal/cache"
	"github.com/nsp-portal/scholarship-service/internal/models"
	"github.com/nsp-portal/scholarship-service/internal/repositories"
)

type SchemePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewSchemePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.SchemeRepository {
	return &SchemePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (s *SchemePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *SchemePostgreSQL) Create(ctx context.Context, tx *gorm.DB, scheme *models.ScholarshipScheme) error {
	if err := s.getDB(tx).WithContext(ctx).Create(scheme).Error; err != nil {
		return fmt.Errorf("failed to create scheme: %w", translateError(err))
	}
	cache.SafeInvalidatePattern(ctx, s.cacheManager.Scheme, "list:*")
	return nil
}

func (s *SchemePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ScholarshipScheme, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var scheme models.ScholarshipScheme

	err := s.cacheManager.Scheme.CacheOrExecute(ctx, cacheKey, &scheme, cache.SchemeCacheConfig.TTL, func() (interface{}, error) {
		var dbScheme models.ScholarshipScheme
		if err := s.getDB(tx).WithContext(ctx).First(&dbScheme, id).Error; err != nil {
			return nil, translateError(err)
		}
		return &dbScheme, nil
	})
	if err != nil {
		return nil, err
	}

	return &scheme, nil
}

func (s *SchemePostgreSQL) Update(ctx context.Context, tx *gorm.DB, scheme *models.ScholarshipScheme) error {
	if err := s.getDB(tx).WithContext(ctx).Save(scheme).Error; err != nil {
		return fmt.Errorf("failed to update scheme: %w", translateError(err))
	}
	s.cacheManager.InvalidateScheme(ctx, scheme.ID)
	return nil
}

var schemeSortColumns = map[string]bool{
	"scheme_name":          true,
	"application_end_date": true,
	"created_at":           true,
}

func (s *SchemePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.SchemeFilters) ([]*models.ScholarshipScheme, int64, error) {
	query := s.getDB(tx).WithContext(ctx).Model(&models.ScholarshipScheme{})

	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.OpenOn != nil {
		query = query.Where("application_start_date <= ? AND application_end_date >= ?", *filters.OpenOn, *filters.OpenOn)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder, schemeSortColumns)

	var schemes []*models.ScholarshipScheme
	if err := query.Find(&schemes).Error; err != nil {
		return nil, 0, err
	}

	return schemes, total, nil
}
