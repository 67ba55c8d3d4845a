package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nsp-portal/scholarship-service/internal/models"
	"github.com/nsp-portal/scholarship-service/internal/repositories"
)

type DocumentPostgreSQL struct {
	db *gorm.DB
}

func NewDocumentPostgreSQL(db *gorm.DB) repositories.DocumentRepository {
	return &DocumentPostgreSQL{db: db}
}

func (d *DocumentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return d.db
}

func (d *DocumentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, doc *models.ApplicationDocument) error {
	if err := d.getDB(tx).WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", translateError(err))
	}
	return nil
}

func (d *DocumentPostgreSQL) GetByApplication(ctx context.Context, tx *gorm.DB, applicationID uint) ([]*models.ApplicationDocument, error) {
	var docs []*models.ApplicationDocument
	err := d.getDB(tx).WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("upload_date ASC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (d *DocumentPostgreSQL) MarkVerified(ctx context.Context, tx *gorm.DB, documentID uint, remarks string) error {
	now := time.Now()
	result := d.getDB(tx).WithContext(ctx).
		Model(&models.ApplicationDocument{}).
		Where("id = ?", documentID).
		Updates(map[string]interface{}{
			"is_verified":          true,
			"verification_date":    now,
			"verification_remarks": remarks,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark document verified: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
