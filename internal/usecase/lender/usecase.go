package lender

import (
	"context"
	"errors"

	"p2p-lending-backend/internal/domain/apperr"
	domain "p2p-lending-backend/internal/domain/lender"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type TierRecomputer interface {
	RecomputeTier(ctx context.Context, lenderID string) (domain.Tier, error)
}

type Usecase struct {
	uow     uow.UnitOfWork
	lenders domain.Repository
	ranker  TierRecomputer
	log     logrus.FieldLogger
}

func NewUsecase(tx uow.UnitOfWork, lenders domain.Repository, ranker TierRecomputer, log logrus.FieldLogger) *Usecase {
	return &Usecase{uow: tx, lenders: lenders, ranker: ranker, log: log}
}

func checkCapital(c decimal.Decimal) error {
	if c.IsNegative() {
		return apperr.Validation("capital must be >= 0")
	}
	if !c.Equal(c.Round(2)) {
		return apperr.Validation("capital must have at most 2 decimals")
	}
	return nil
}

func (u *Usecase) CreateProfile(ctx context.Context, in CreateProfileInput) (*ProfileDTO, error) {
	if !id.Valid(in.LenderID) {
		return nil, apperr.Validation("lender_id must be 32-char lowercase hex")
	}
	if err := checkCapital(in.Capital); err != nil {
		return nil, err
	}
	l := &domain.Lender{
		LenderID: in.LenderID,
		Capital:  in.Capital,
		Tier:     domain.Tier1,
		Active:   in.Active,
	}
	if err := u.lenders.Create(ctx, l); err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"lender_id": l.LenderID, "capital": l.Capital.StringFixed(2)}).Info("lender: profile created")
	return toDTO(l), nil
}

// UpdateProfile applies the set fields under a row lock, then refreshes the
// tier. A tier failure is logged; the update itself already committed.
func (u *Usecase) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*ProfileDTO, error) {
	if !id.Valid(in.LenderID) {
		return nil, apperr.Validation("lender_id must be 32-char lowercase hex")
	}
	if in.Capital != nil {
		if err := checkCapital(*in.Capital); err != nil {
			return nil, err
		}
	}

	var out *domain.Lender
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Lenders.GetByLenderIDForUpdate(ctx, in.LenderID)
		if err != nil {
			return err
		}
		if in.Capital != nil {
			l.Capital = *in.Capital
		}
		if in.Active != nil {
			l.Active = *in.Active
		}
		if err := r.Lenders.Save(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	log := u.log.WithField("lender_id", in.LenderID)
	log.Info("lender: profile updated")

	if u.ranker != nil {
		tier, err := u.ranker.RecomputeTier(ctx, in.LenderID)
		if err != nil {
			log.WithError(err).Warn("lender: tier recompute after update failed")
		} else {
			out.Tier = tier
		}
	}
	return toDTO(out), nil
}

// SaveProfile updates an existing profile or creates a missing one.
func (u *Usecase) SaveProfile(ctx context.Context, in UpdateProfileInput) (*ProfileDTO, bool, error) {
	if !id.Valid(in.LenderID) {
		return nil, false, apperr.Validation("lender_id must be 32-char lowercase hex")
	}
	_, err := u.lenders.GetByLenderID(ctx, in.LenderID)
	switch {
	case err == nil:
		dto, err := u.UpdateProfile(ctx, in)
		return dto, false, err
	case !errors.Is(err, apperr.ErrLenderNotFound):
		return nil, false, err
	}

	create := CreateProfileInput{LenderID: in.LenderID, Capital: decimal.Zero, Active: true}
	if in.Capital != nil {
		create.Capital = *in.Capital
	}
	if in.Active != nil {
		create.Active = *in.Active
	}
	dto, err := u.CreateProfile(ctx, create)
	if errors.Is(err, apperr.ErrLenderExists) {
		// lost a race with another create; apply as an update
		dto, err = u.UpdateProfile(ctx, in)
		return dto, false, err
	}
	return dto, err == nil, err
}

func (u *Usecase) Deposit(ctx context.Context, lenderID string, amount decimal.Decimal) (*DepositDTO, error) {
	if !id.Valid(lenderID) {
		return nil, apperr.Validation("lender_id must be 32-char lowercase hex")
	}
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return nil, apperr.Validation("amount must be > 0 with at most 2 decimals")
	}
	balance, err := u.lenders.Credit(ctx, lenderID, amount)
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{
		"lender_id": lenderID,
		"amount":    amount.StringFixed(2),
		"capital":   balance.StringFixed(2),
	}).Info("lender: deposit")
	return &DepositDTO{LenderID: lenderID, Amount: amount, Capital: balance}, nil
}

func (u *Usecase) Get(ctx context.Context, lenderID string) (*ProfileDTO, error) {
	if !id.Valid(lenderID) {
		return nil, apperr.Validation("lender_id must be 32-char lowercase hex")
	}
	l, err := u.lenders.GetByLenderID(ctx, lenderID)
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}
