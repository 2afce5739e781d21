package lender

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository is the capital ledger. Debit and Credit are single conditional
// statements; they never read-then-write.
type Repository interface {
	Create(ctx context.Context, l *Lender) error
	GetByLenderID(ctx context.Context, lenderID string) (*Lender, error)
	// GetByLenderIDForUpdate locks the lender row until the surrounding tx ends.
	GetByLenderIDForUpdate(ctx context.Context, lenderID string) (*Lender, error)
	Save(ctx context.Context, l *Lender) error

	// Debit subtracts amount only if capital >= amount and returns the new balance.
	// Fails with *apperr.InsufficientCapitalError and leaves the row untouched otherwise.
	Debit(ctx context.Context, lenderID string, amount decimal.Decimal) (decimal.Decimal, error)
	Credit(ctx context.Context, lenderID string, amount decimal.Decimal) (decimal.Decimal, error)
	SetTier(ctx context.Context, lenderID string, tier Tier) error

	ListActiveIDs(ctx context.Context) ([]string, error)
}
