package paymentmock

import (
	"context"
	"errors"

	domain "p2p-lending-backend/internal/domain/payment"

	"github.com/shopspring/decimal"
)

var (
	_ domain.Repository       = (*Repo)(nil)
	_ domain.MethodRepository = (*Methods)(nil)
)

var errUnimplemented = errors.New("paymentmock: method not implemented")

type Repo struct {
	CreateFn           func(ctx context.Context, p *domain.Payment) error
	SaveFn             func(ctx context.Context, p *domain.Payment) error
	GetByPaymentIDFn   func(ctx context.Context, paymentID string) (*domain.Payment, error)
	SumByLoanIDFn      func(ctx context.Context, loanID, excludePaymentID string) (decimal.Decimal, error)
	ListByLoanIDFn     func(ctx context.Context, loanID string) ([]domain.Payment, error)
	ListByBorrowerIDFn func(ctx context.Context, borrowerID string) ([]domain.Detail, error)
	ListByOfferIDFn    func(ctx context.Context, offerID string) ([]domain.Payment, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}
func (m *Repo) Save(ctx context.Context, p *domain.Payment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}
func (m *Repo) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if m.GetByPaymentIDFn != nil {
		return m.GetByPaymentIDFn(ctx, paymentID)
	}
	return nil, errUnimplemented
}
func (m *Repo) SumByLoanID(ctx context.Context, loanID, excludePaymentID string) (decimal.Decimal, error) {
	if m.SumByLoanIDFn != nil {
		return m.SumByLoanIDFn(ctx, loanID, excludePaymentID)
	}
	return decimal.Zero, nil
}
func (m *Repo) ListByLoanID(ctx context.Context, loanID string) ([]domain.Payment, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, errUnimplemented
}
func (m *Repo) ListByBorrowerID(ctx context.Context, borrowerID string) ([]domain.Detail, error) {
	if m.ListByBorrowerIDFn != nil {
		return m.ListByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, errUnimplemented
}
func (m *Repo) ListByOfferID(ctx context.Context, offerID string) ([]domain.Payment, error) {
	if m.ListByOfferIDFn != nil {
		return m.ListByOfferIDFn(ctx, offerID)
	}
	return nil, errUnimplemented
}

// Methods mocks the payment method catalog; unset means every method exists.
type Methods struct {
	ExistsFn func(ctx context.Context, methodID uint64) (bool, error)
}

func (m *Methods) Exists(ctx context.Context, methodID uint64) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, methodID)
	}
	return true, nil
}
