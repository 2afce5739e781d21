package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	Save(ctx context.Context, p *Payment) error
	GetByPaymentID(ctx context.Context, paymentID string) (*Payment, error)

	// SumByLoanID totals every payment recorded against the loan,
	// optionally leaving one payment out (pass "" to include all).
	SumByLoanID(ctx context.Context, loanID, excludePaymentID string) (decimal.Decimal, error)

	ListByLoanID(ctx context.Context, loanID string) ([]Payment, error)
	ListByBorrowerID(ctx context.Context, borrowerID string) ([]Detail, error)
	ListByOfferID(ctx context.Context, offerID string) ([]Payment, error)
}

type MethodRepository interface {
	Exists(ctx context.Context, methodID uint64) (bool, error)
}
