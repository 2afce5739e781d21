package loanrequest

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Holds reports whether the status still occupies the (offer, borrower) slot.
func (s Status) Holds() bool { return s == StatusPending || s == StatusAccepted }

// Table: loan_requests
type LoanRequest struct {
	ID              uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RequestID       string          `gorm:"column:request_id;size:32;not null;uniqueIndex:ux_loan_requests_request_id" json:"request_id"`
	OfferID         string          `gorm:"column:offer_id;size:32;not null;uniqueIndex:ux_loan_requests_active_pair,priority:1" json:"offer_id"`
	BorrowerID      string          `gorm:"column:borrower_id;size:32;not null;uniqueIndex:ux_loan_requests_active_pair,priority:2" json:"borrower_id"`
	RequestedAmount decimal.Decimal `gorm:"column:requested_amount;type:decimal(18,2);not null" json:"requested_amount"`
	Comment         string          `gorm:"column:comment;type:text" json:"comment"`
	Status          Status          `gorm:"column:status;size:16;not null;default:'pending'" json:"status"`
	// ActiveSlot is 1 while pending/accepted and NULL once rejected; NULLs never
	// collide in the unique index, so rejected requests free the pair.
	ActiveSlot *int      `gorm:"column:active_slot;uniqueIndex:ux_loan_requests_active_pair,priority:3" json:"-"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (LoanRequest) TableName() string { return "loan_requests" }

// SetStatus keeps ActiveSlot consistent with the status.
func (r *LoanRequest) SetStatus(s Status) {
	r.Status = s
	if s.Holds() {
		one := 1
		r.ActiveSlot = &one
		return
	}
	r.ActiveSlot = nil
}

// View adds the offer code, the owning lender and the borrower's contact for
// listings. Contact fields are empty when the directory has no entry.
type View struct {
	LoanRequest
	OfferCode     string `gorm:"column:offer_code" json:"offer_code"`
	LenderID      string `gorm:"column:lender_id" json:"lender_id"`
	BorrowerPhone string `gorm:"column:borrower_phone" json:"borrower_phone"`
	BorrowerEmail string `gorm:"column:borrower_email" json:"borrower_email"`
}
