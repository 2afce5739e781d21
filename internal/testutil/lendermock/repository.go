package lendermock

import (
	"context"
	"errors"

	domain "p2p-lending-backend/internal/domain/lender"

	"github.com/shopspring/decimal"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("lendermock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn        func(ctx context.Context, l *domain.Lender) error
	GetByLenderIDFn func(ctx context.Context, lenderID string) (*domain.Lender, error)
	// nil falls back to GetByLenderIDFn
	GetByLenderIDForUpdateFn func(ctx context.Context, lenderID string) (*domain.Lender, error)
	SaveFn                   func(ctx context.Context, l *domain.Lender) error
	DebitFn                  func(ctx context.Context, lenderID string, amount decimal.Decimal) (decimal.Decimal, error)
	CreditFn                 func(ctx context.Context, lenderID string, amount decimal.Decimal) (decimal.Decimal, error)
	SetTierFn                func(ctx context.Context, lenderID string, tier domain.Tier) error
	ListActiveIDsFn          func(ctx context.Context) ([]string, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Lender) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}
func (m *Repo) GetByLenderID(ctx context.Context, lenderID string) (*domain.Lender, error) {
	if m.GetByLenderIDFn != nil {
		return m.GetByLenderIDFn(ctx, lenderID)
	}
	return nil, errUnimplemented
}
func (m *Repo) GetByLenderIDForUpdate(ctx context.Context, lenderID string) (*domain.Lender, error) {
	if m.GetByLenderIDForUpdateFn != nil {
		return m.GetByLenderIDForUpdateFn(ctx, lenderID)
	}
	return m.GetByLenderID(ctx, lenderID)
}
func (m *Repo) Save(ctx context.Context, l *domain.Lender) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
func (m *Repo) Debit(ctx context.Context, lenderID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if m.DebitFn != nil {
		return m.DebitFn(ctx, lenderID, amount)
	}
	return decimal.Zero, errUnimplemented
}
func (m *Repo) Credit(ctx context.Context, lenderID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if m.CreditFn != nil {
		return m.CreditFn(ctx, lenderID, amount)
	}
	return decimal.Zero, errUnimplemented
}
func (m *Repo) SetTier(ctx context.Context, lenderID string, tier domain.Tier) error {
	if m.SetTierFn != nil {
		return m.SetTierFn(ctx, lenderID, tier)
	}
	return nil
}
func (m *Repo) ListActiveIDs(ctx context.Context) ([]string, error) {
	if m.ListActiveIDsFn != nil {
		return m.ListActiveIDsFn(ctx)
	}
	return nil, errUnimplemented
}
