package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the loan row until the surrounding tx ends.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetByOfferAndBorrower(ctx context.Context, offerID, borrowerID string) (*Loan, error)

	ListByLenderID(ctx context.Context, lenderID string) ([]Detail, error)
	ListByBorrowerID(ctx context.Context, borrowerID string) ([]Detail, error)

	// CompletedByLenderID lists active loans financed by the lender's offers whose
	// active payment count reached the offer's installment count.
	CompletedByLenderID(ctx context.Context, lenderID string) ([]Completed, error)
}
