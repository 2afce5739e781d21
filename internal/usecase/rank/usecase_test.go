package rank

import (
	"context"
	"errors"
	"testing"

	"p2p-lending-backend/internal/adapter/repository/mysql"
	"p2p-lending-backend/internal/domain/apperr"
	"p2p-lending-backend/internal/domain/lender"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/infrastructure/logging"
	"p2p-lending-backend/internal/testutil/lendermock"
	"p2p-lending-backend/internal/testutil/loanmock"
	"p2p-lending-backend/internal/testutil/sqlitedb"
	"p2p-lending-backend/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		principal int64
		want      lender.Tier
	}{
		{"nothing", 0, 0, lender.Tier1},
		{"diamond floor", 10, 100000, lender.Tier3},
		{"diamond count but gold principal", 10, 99999, lender.Tier2},
		{"many loans, tiny principal", 40, 1000, lender.Tier1},
		{"gold floor", 5, 50000, lender.Tier2},
		{"gold principal, too few loans", 4, 500000, lender.Tier1},
		{"nine loans big principal", 9, 120000, lender.Tier2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TierFor(tt.count, decimal.NewFromInt(tt.principal)); got != tt.want {
				t.Fatalf("TierFor(%d, %d) = %v, want %v", tt.count, tt.principal, got, tt.want)
			}
		})
	}
}

// seedCompleted creates n fully repaid single-installment loans of amount each.
func seedCompleted(t *testing.T, gdb *gorm.DB, lenderID string, n int, amount int64) []*loan.Loan {
	t.Helper()
	out := make([]*loan.Loan, 0, n)
	for i := 0; i < n; i++ {
		o := sqlitedb.SeedOffer(t, gdb, lenderID, amount, 1, amount)
		l := sqlitedb.SeedLoan(t, gdb, o.OfferID, id.NewID32())
		sqlitedb.SeedPayment(t, gdb, l.LoanID, amount)
		out = append(out, l)
	}
	return out
}

func TestRecompute_FromHistory(t *testing.T) {
	gdb := sqlitedb.Open(t)
	lenders := mysql.NewLenderRepository(gdb)
	uc := NewUsecase(lenders, mysql.NewLoanRepository(gdb), logging.Discard())
	ctx := context.Background()

	l := sqlitedb.SeedLender(t, gdb, 0)
	loans := seedCompleted(t, gdb, l.LenderID, 10, 12000)

	// an unpaid loan never counts
	open := sqlitedb.SeedOffer(t, gdb, l.LenderID, 90000, 3, 30000)
	sqlitedb.SeedLoan(t, gdb, open.OfferID, id.NewID32())

	tier, err := uc.RecomputeTier(ctx, l.LenderID)
	require.NoError(t, err)
	assert.Equal(t, lender.Tier3, tier)

	again, err := uc.Recompute(ctx, l.LenderID)
	require.NoError(t, err)
	assert.Equal(t, lender.Tier3, again.Tier, "recompute is idempotent")
	assert.Equal(t, 10, again.Stats.CompletedLoans)
	assert.True(t, again.Stats.PrincipalCompleted.Equal(decimal.NewFromInt(120000)))

	stored, err := lenders.GetByLenderID(ctx, l.LenderID)
	require.NoError(t, err)
	assert.Equal(t, lender.Tier3, stored.Tier)

	require.NoError(t, gdb.Model(&loan.Loan{}).Where("loan_id = ?", loans[0].LoanID).Update("active", false).Error)
	tier, err = uc.RecomputeTier(ctx, l.LenderID)
	require.NoError(t, err)
	assert.Equal(t, lender.Tier2, tier)
}

func TestRecompute_InactivePaymentsDoNotComplete(t *testing.T) {
	gdb := sqlitedb.Open(t)
	uc := NewUsecase(mysql.NewLenderRepository(gdb), mysql.NewLoanRepository(gdb), logging.Discard())
	l := sqlitedb.SeedLender(t, gdb, 0)
	loans := seedCompleted(t, gdb, l.LenderID, 5, 10000)

	stats, err := uc.Stats(context.Background(), l.LenderID)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.CompletedLoans)

	require.NoError(t, gdb.Exec("UPDATE payments SET active = ? WHERE loan_id = ?", false, loans[0].LoanID).Error)
	tier, err := uc.RecomputeTier(context.Background(), l.LenderID)
	require.NoError(t, err)
	assert.Equal(t, lender.Tier1, tier)
}

func TestRecompute_AggregationFailureDefaultsToTier1(t *testing.T) {
	var stored lender.Tier
	lenders := &lendermock.Repo{SetTierFn: func(_ context.Context, _ string, tier lender.Tier) error {
		stored = tier
		return nil
	}}
	loans := &loanmock.Repo{CompletedByLenderIDFn: func(context.Context, string) ([]loan.Completed, error) {
		return nil, apperr.Storage("aggregate", errors.New("timeout"))
	}}
	uc := NewUsecase(lenders, loans, logging.Discard())

	tier, err := uc.RecomputeTier(context.Background(), id.NewID32())
	require.NoError(t, err)
	assert.Equal(t, lender.Tier1, tier)
	assert.Equal(t, lender.Tier1, stored)
}

func TestRecompute_SetTierFailureSurfaces(t *testing.T) {
	lenders := &lendermock.Repo{SetTierFn: func(context.Context, string, lender.Tier) error {
		return apperr.Storage("set tier", errors.New("read-only replica"))
	}}
	loans := &loanmock.Repo{CompletedByLenderIDFn: func(context.Context, string) ([]loan.Completed, error) {
		return nil, nil
	}}
	uc := NewUsecase(lenders, loans, logging.Discard())

	_, err := uc.RecomputeTier(context.Background(), id.NewID32())
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))

	_, err = uc.RecomputeTier(context.Background(), "bad")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRecomputeAll_ContinuesPastFailures(t *testing.T) {
	good, bad := id.NewID32(), id.NewID32()
	seen := map[string]lender.Tier{}
	lenders := &lendermock.Repo{
		ListActiveIDsFn: func(context.Context) ([]string, error) { return []string{bad, good}, nil },
		SetTierFn: func(_ context.Context, lenderID string, tier lender.Tier) error {
			if lenderID == bad {
				return apperr.ErrLenderNotFound
			}
			seen[lenderID] = tier
			return nil
		},
	}
	loans := &loanmock.Repo{CompletedByLenderIDFn: func(context.Context, string) ([]loan.Completed, error) {
		out := make([]loan.Completed, 5)
		for i := range out {
			out[i].Amount = decimal.NewFromInt(10000)
		}
		return out, nil
	}}
	uc := NewUsecase(lenders, loans, logging.Discard())

	n, err := uc.RecomputeAll(context.Background())
	require.ErrorIs(t, err, apperr.ErrLenderNotFound)
	assert.Equal(t, 1, n)
	assert.Equal(t, lender.Tier2, seen[good])
}
