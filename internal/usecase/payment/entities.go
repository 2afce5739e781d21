package payment

import (
	"time"

	domain "p2p-lending-backend/internal/domain/payment"

	"github.com/shopspring/decimal"
)

type RecordInput struct {
	LoanID     string
	Amount     decimal.Decimal
	MethodID   uint64
	PaidAt     time.Time // zero means now
	ReceiptRef string
}

type UpdateInput struct {
	PaymentID  string
	Amount     decimal.Decimal
	MethodID   uint64
	ReceiptRef string
	Active     *bool
}

type PaymentDTO struct {
	PaymentID  string          `json:"payment_id"`
	LoanID     string          `json:"loan_id"`
	Amount     decimal.Decimal `json:"amount"`
	MethodID   uint64          `json:"method_id"`
	PaidAt     time.Time       `json:"paid_at"`
	ReceiptRef string          `json:"receipt_ref"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	// remaining balance of the loan after this payment
	Balance decimal.Decimal `json:"balance"`
}

type BalanceDTO struct {
	LoanID    string          `json:"loan_id"`
	TotalOwed decimal.Decimal `json:"total_owed"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	Balance   decimal.Decimal `json:"balance"`
	FullyPaid bool            `json:"fully_paid"`
}

type LoanPaymentsDTO struct {
	BalanceDTO
	Payments []domain.Payment `json:"payments"`
}

func toDTO(p *domain.Payment, balance decimal.Decimal) *PaymentDTO {
	return &PaymentDTO{
		PaymentID:  p.PaymentID,
		LoanID:     p.LoanID,
		Amount:     p.Amount,
		MethodID:   p.MethodID,
		PaidAt:     p.PaidAt,
		ReceiptRef: p.ReceiptRef,
		Active:     p.Active,
		CreatedAt:  p.CreatedAt,
		Balance:    balance,
	}
}
