package postgres

import (
	"strings"

	"blogauth/internal/errors"

	"gorm.io/gorm"
)

// isUniqueConstraintViolation needs TranslateError on the gorm config to see
// ErrDuplicatedKey, so the raw SQLSTATE is checked as well.
func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	return strings.Contains(err.Error(), "SQLSTATE 23505")
}

func isForeignKeyConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	return strings.Contains(err.Error(), "SQLSTATE 23503")
}
