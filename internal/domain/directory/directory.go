package directory

import "context"

// Contact is what a lender needs to reach an applicant.
type Contact struct {
	Phone string `gorm:"column:phone"`
	Email string `gorm:"column:email"`
}

// UserDirectory is owned by the user subsystem; the lending core only reads it.
type UserDirectory interface {
	ContactInfo(ctx context.Context, userID string) (*Contact, error)
}
