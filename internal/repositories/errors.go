package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound wraps gorm's record-not-found at the repository boundary.
	ErrNotFound = errors.New("record not found")

	// ErrStaleStatus is returned by guarded status updates when the row's
	// status no longer matches the expected precondition.
	ErrStaleStatus = errors.New("status precondition no longer holds")

	// ErrDuplicate is returned on unique-constraint conflicts.
	ErrDuplicate = errors.New("record already exists")
)

// IsNotFoundError reports whether err means the record does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsStaleStatusError reports whether err is a failed compare-and-set.
func IsStaleStatusError(err error) bool {
	return errors.Is(err, ErrStaleStatus)
}

// IsDuplicateError reports whether err is a unique-constraint conflict.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey)
}
