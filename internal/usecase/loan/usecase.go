package loan

import (
	"context"

	"p2p-lending-backend/internal/domain/apperr"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/pkg/id"
)

// Usecase serves read-only loan views. Loans are only created by origination.
type Usecase struct{ repo loan.Repository }

func NewUsecase(r loan.Repository) *Usecase { return &Usecase{repo: r} }

func mustHex(field, v string) error {
	if !id.Valid(v) {
		return apperr.Validation("%s must be 32-char lowercase hex", field)
	}
	return nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*loan.Loan, error) {
	if err := mustHex("loan_id", loanID); err != nil {
		return nil, err
	}
	return u.repo.GetByLoanID(ctx, loanID)
}

func (u *Usecase) GetByOfferAndBorrower(ctx context.Context, offerID, borrowerID string) (*loan.Loan, error) {
	if err := mustHex("offer_id", offerID); err != nil {
		return nil, err
	}
	if err := mustHex("borrower_id", borrowerID); err != nil {
		return nil, err
	}
	return u.repo.GetByOfferAndBorrower(ctx, offerID, borrowerID)
}

func (u *Usecase) ListByLender(ctx context.Context, lenderID string) ([]loan.Detail, error) {
	if err := mustHex("lender_id", lenderID); err != nil {
		return nil, err
	}
	return u.repo.ListByLenderID(ctx, lenderID)
}

func (u *Usecase) ListByBorrower(ctx context.Context, borrowerID string) ([]loan.Detail, error) {
	if err := mustHex("borrower_id", borrowerID); err != nil {
		return nil, err
	}
	return u.repo.ListByBorrowerID(ctx, borrowerID)
}
