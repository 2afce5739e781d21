package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

// Table: loans. Created once per origination; only Active changes afterwards.
type Loan struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanID     string    `gorm:"column:loan_id;size:32;not null;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	OfferID    string    `gorm:"column:offer_id;size:32;not null;index:idx_loans_offer_borrower" json:"offer_id"`
	BorrowerID string    `gorm:"column:borrower_id;size:32;not null;index:idx_loans_offer_borrower;index:idx_loans_borrower" json:"borrower_id"`
	StartDate  time.Time `gorm:"column:start_date;not null" json:"start_date"`
	EndDate    time.Time `gorm:"column:end_date;not null" json:"end_date"`
	Active     bool      `gorm:"column:active;not null" json:"active"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Detail is a loan joined with the terms of its offer.
type Detail struct {
	Loan
	LenderID          string          `gorm:"column:lender_id" json:"lender_id"`
	Amount            decimal.Decimal `gorm:"column:amount" json:"amount"`
	InterestRate      decimal.Decimal `gorm:"column:interest_rate" json:"interest_rate"`
	InstallmentCount  int             `gorm:"column:installment_count" json:"installment_count"`
	InstallmentAmount decimal.Decimal `gorm:"column:installment_amount" json:"installment_amount"`
}

// Completed is a fully repaid loan and the principal of its offer.
type Completed struct {
	LoanID string          `gorm:"column:loan_id"`
	Amount decimal.Decimal `gorm:"column:amount"`
}
