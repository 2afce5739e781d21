package rank

import (
	"context"

	"p2p-lending-backend/internal/domain/apperr"
	"p2p-lending-backend/internal/domain/lender"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	diamondLoans     = 10
	diamondPrincipal = decimal.NewFromInt(100000)
	goldLoans        = 5
	goldPrincipal    = decimal.NewFromInt(50000)
)

// TierFor is the whole ranking rule; strictest tier first.
func TierFor(completedLoans int, principal decimal.Decimal) lender.Tier {
	switch {
	case completedLoans >= diamondLoans && principal.GreaterThanOrEqual(diamondPrincipal):
		return lender.Tier3
	case completedLoans >= goldLoans && principal.GreaterThanOrEqual(goldPrincipal):
		return lender.Tier2
	default:
		return lender.Tier1
	}
}

type Usecase struct {
	lenders lender.Repository
	loans   loan.Repository
	log     logrus.FieldLogger
}

func NewUsecase(lenders lender.Repository, loans loan.Repository, log logrus.FieldLogger) *Usecase {
	return &Usecase{lenders: lenders, loans: loans, log: log}
}

func (u *Usecase) Stats(ctx context.Context, lenderID string) (Stats, error) {
	done, err := u.loans.CompletedByLenderID(ctx, lenderID)
	if err != nil {
		return Stats{}, err
	}
	s := Stats{PrincipalCompleted: decimal.Zero}
	for _, c := range done {
		s.CompletedLoans++
		s.PrincipalCompleted = s.PrincipalCompleted.Add(c.Amount)
	}
	return s, nil
}

// Recompute derives the tier from history and stores it. The tier is advisory:
// an aggregation failure is logged and the lender drops to Tier1.
func (u *Usecase) Recompute(ctx context.Context, lenderID string) (*TierDTO, error) {
	if !id.Valid(lenderID) {
		return nil, apperr.Validation("lender_id must be 32-char lowercase hex")
	}
	log := u.log.WithField("lender_id", lenderID)

	stats, err := u.Stats(ctx, lenderID)
	tier := lender.Tier1
	if err != nil {
		log.WithError(err).Warn("rank: aggregation failed, defaulting to lowest tier")
		stats = Stats{PrincipalCompleted: decimal.Zero}
	} else {
		tier = TierFor(stats.CompletedLoans, stats.PrincipalCompleted)
	}

	if err := u.lenders.SetTier(ctx, lenderID, tier); err != nil {
		log.WithError(err).Error("rank: storing tier failed")
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"tier":                tier.Name(),
		"completed_loans":     stats.CompletedLoans,
		"principal_completed": stats.PrincipalCompleted.StringFixed(2),
	}).Info("rank: tier recomputed")

	return &TierDTO{LenderID: lenderID, Tier: tier, Name: tier.Name(), Stats: stats}, nil
}

func (u *Usecase) RecomputeTier(ctx context.Context, lenderID string) (lender.Tier, error) {
	dto, err := u.Recompute(ctx, lenderID)
	if err != nil {
		return lender.Tier1, err
	}
	return dto.Tier, nil
}

// RecomputeAll sweeps every active lender. One lender failing does not stop
// the sweep; the first error is returned after the sweep finishes.
func (u *Usecase) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := u.lenders.ListActiveIDs(ctx)
	if err != nil {
		return 0, err
	}
	var firstErr error
	done := 0
	for _, lenderID := range ids {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		if _, err := u.Recompute(ctx, lenderID); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		done++
	}
	u.log.WithFields(logrus.Fields{"lenders": len(ids), "updated": done}).Info("rank: sweep finished")
	return done, firstErr
}
