package postgres

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/nsp-portal/scholarship-service/internal/repositories"
)

// translateError maps gorm errors onto the repository error vocabulary.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repositories.ErrDuplicate
	}
	return err
}

// applyPaginationAndSort applies limit/offset and an allow-listed sort
// column to the query.
func applyPaginationAndSort(query *gorm.DB, limit, offset int, sortBy, sortOrder string, allowed map[string]bool) *gorm.DB {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	column := "created_at"
	if allowed[sortBy] {
		column = sortBy
	}
	order := "desc"
	if strings.EqualFold(sortOrder, "asc") {
		order = "asc"
	}

	return query.Order(column + " " + order).Limit(limit).Offset(offset)
}
