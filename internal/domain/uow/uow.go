package uow

import (
	"context"

	"p2p-lending-backend/internal/domain/lender"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/loanrequest"
	"p2p-lending-backend/internal/domain/offer"
	"p2p-lending-backend/internal/domain/payment"
)

// Repos bound to one transaction.
type Repos struct {
	Lenders  lender.Repository
	Offers   offer.Repository
	Loans    loan.Repository
	Payments payment.Repository
	Methods  payment.MethodRepository
	Requests loanrequest.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan row first; serializes payments per loan
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
	// lock the request row first; serializes accept/reject per request
	WithinRequestTx(ctx context.Context, requestID string, fn func(r Repos, req *loanrequest.LoanRequest) error) error
}
