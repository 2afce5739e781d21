package mysql

import (
	"errors"

	"p2p-lending-backend/internal/domain/apperr"

	"gorm.io/gorm"
)

// notFoundOr maps gorm's missing-row error to the domain sentinel and
// everything else to an opaque storage error.
func notFoundOr(op string, err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return apperr.Storage(op, err)
}
