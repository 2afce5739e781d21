package db

import (
	"p2p-lending-backend/internal/domain/lender"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/loanrequest"
	"p2p-lending-backend/internal/domain/offer"
	"p2p-lending-backend/internal/domain/payment"

	"gorm.io/gorm"
)

// Models owned by the lending core. users and payment_methods reference data
// belong to other subsystems; payment_methods is migrated so a fresh database
// can accept payments.
func Models() []any {
	return []any{
		&lender.Lender{},
		&offer.Offer{},
		&loan.Loan{},
		&payment.Method{},
		&payment.Payment{},
		&loanrequest.LoanRequest{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
