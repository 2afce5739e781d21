package loanrequest

import "context"

type Repository interface {
	// Create relies on the unique (offer, borrower, active_slot) index;
	// a second active request surfaces as apperr.ErrDuplicateApplication.
	Create(ctx context.Context, r *LoanRequest) error
	Save(ctx context.Context, r *LoanRequest) error
	GetByRequestID(ctx context.Context, requestID string) (*LoanRequest, error)
	GetByRequestIDForUpdate(ctx context.Context, requestID string) (*LoanRequest, error)
	// GetActive returns the pending/accepted request for the pair, if any.
	GetActive(ctx context.Context, offerID, borrowerID string) (*LoanRequest, error)

	ListByOfferID(ctx context.Context, offerID string) ([]View, error)
	ListByLenderID(ctx context.Context, lenderID string) ([]View, error)
}
