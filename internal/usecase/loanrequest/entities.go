package loanrequest

import (
	domain "p2p-lending-backend/internal/domain/loanrequest"
	"p2p-lending-backend/internal/usecase/origination"

	"github.com/shopspring/decimal"
)

type SubmitInput struct {
	OfferID         string
	BorrowerID      string
	RequestedAmount decimal.Decimal
	Comment         string
}

type AcceptResult struct {
	Request *domain.LoanRequest  `json:"request"`
	Loan    *origination.LoanDTO `json:"loan"`
}

type ActiveApplication struct {
	Applied bool          `json:"applied"`
	Status  domain.Status `json:"status,omitempty"`
}
