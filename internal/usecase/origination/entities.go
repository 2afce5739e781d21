package origination

import (
	"time"

	"github.com/shopspring/decimal"
)

type OriginateInput struct {
	OfferID    string
	BorrowerID string
	StartDate  time.Time
	EndDate    time.Time
}

type LoanDTO struct {
	LoanID     string          `json:"loan_id"`
	OfferID    string          `json:"offer_id"`
	BorrowerID string          `json:"borrower_id"`
	LenderID   string          `json:"lender_id"`
	Amount     decimal.Decimal `json:"amount"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	// lender capital left after the debit
	LenderCapital decimal.Decimal `json:"lender_capital"`
}
