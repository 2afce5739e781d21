package loanmock

import (
	"context"

	domain "p2p-lending-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn                func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn           func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn  func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByOfferAndBorrowerFn func(ctx context.Context, offerID, borrowerID string) (*domain.Loan, error)
	ListByLenderIDFn        func(ctx context.Context, lenderID string) ([]domain.Detail, error)
	ListByBorrowerIDFn      func(ctx context.Context, borrowerID string) ([]domain.Detail, error)
	CompletedByLenderIDFn   func(ctx context.Context, lenderID string) ([]domain.Completed, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}
func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled // or errors.New("not implemented")
}
func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}
func (m *Repo) GetByOfferAndBorrower(ctx context.Context, offerID, borrowerID string) (*domain.Loan, error) {
	if m.GetByOfferAndBorrowerFn != nil {
		return m.GetByOfferAndBorrowerFn(ctx, offerID, borrowerID)
	}
	return nil, context.Canceled
}
func (m *Repo) ListByLenderID(ctx context.Context, lenderID string) ([]domain.Detail, error) {
	if m.ListByLenderIDFn != nil {
		return m.ListByLenderIDFn(ctx, lenderID)
	}
	return nil, context.Canceled
}
func (m *Repo) ListByBorrowerID(ctx context.Context, borrowerID string) ([]domain.Detail, error) {
	if m.ListByBorrowerIDFn != nil {
		return m.ListByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, context.Canceled
}
func (m *Repo) CompletedByLenderID(ctx context.Context, lenderID string) ([]domain.Completed, error) {
	if m.CompletedByLenderIDFn != nil {
		return m.CompletedByLenderIDFn(ctx, lenderID)
	}
	return nil, context.Canceled
}
