package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Table: payments. Append-mostly; amount edits go through the balance recheck.
type Payment struct {
	ID         uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	PaymentID  string          `gorm:"column:payment_id;size:32;not null;uniqueIndex:ux_payments_payment_id" json:"payment_id"`
	LoanID     string          `gorm:"column:loan_id;size:32;not null;index:idx_payments_loan" json:"loan_id"`
	Amount     decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	MethodID   uint64          `gorm:"column:method_id;not null" json:"method_id"`
	PaidAt     time.Time       `gorm:"column:paid_at;not null" json:"paid_at"`
	ReceiptRef string          `gorm:"column:receipt_ref;type:text;not null" json:"receipt_ref"`
	Active     bool            `gorm:"column:active;not null" json:"active"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

// Table: payment_methods (reference data owned elsewhere)
type Method struct {
	ID     uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name   string `gorm:"column:name;size:64;not null" json:"name"`
	Active bool   `gorm:"column:active;not null" json:"active"`
}

func (Method) TableName() string { return "payment_methods" }

// Detail is a payment joined with its loan and offer.
type Detail struct {
	Payment
	OfferID           string          `gorm:"column:offer_id" json:"offer_id"`
	BorrowerID        string          `gorm:"column:borrower_id" json:"borrower_id"`
	LenderID          string          `gorm:"column:lender_id" json:"lender_id"`
	InstallmentCount  int             `gorm:"column:installment_count" json:"installment_count"`
	InstallmentAmount decimal.Decimal `gorm:"column:installment_amount" json:"installment_amount"`
}
