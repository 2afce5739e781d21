package mysql

import (
	"context"

	"p2p-lending-backend/internal/domain/apperr"
	"p2p-lending-backend/internal/domain/directory"

	"gorm.io/gorm"
)

// UserDirectory reads contact details from the users table owned by the
// account subsystem.
type UserDirectory struct{ db *gorm.DB }

func NewUserDirectory(db *gorm.DB) *UserDirectory { return &UserDirectory{db: db} }

func (d *UserDirectory) ContactInfo(ctx context.Context, userID string) (*directory.Contact, error) {
	var out directory.Contact
	res := d.db.WithContext(ctx).
		Table("users").
		Select("phone, email").
		Where("user_id = ?", userID).
		Take(&out)
	if res.Error != nil {
		return nil, notFoundOr("get contact info", res.Error, apperr.NotFound("user not found"))
	}
	return &out, nil
}
