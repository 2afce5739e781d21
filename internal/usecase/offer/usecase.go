package offer

import (
	"context"
	"strings"
	"time"

	"p2p-lending-backend/internal/domain/apperr"
	"p2p-lending-backend/internal/domain/lender"
	domain "p2p-lending-backend/internal/domain/offer"
	"p2p-lending-backend/pkg/id"

	"github.com/sirupsen/logrus"
)

type Usecase struct {
	offers  domain.Repository
	lenders lender.Repository
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewUsecase(offers domain.Repository, lenders lender.Repository, log logrus.FieldLogger) *Usecase {
	return &Usecase{offers: offers, lenders: lenders, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (in PublishInput) validate() error {
	switch {
	case !id.Valid(in.LenderID):
		return apperr.Validation("lender_id must be 32-char lowercase hex")
	case strings.TrimSpace(in.Code) == "":
		return apperr.Validation("code is required")
	case !in.Amount.IsPositive():
		return apperr.Validation("amount must be > 0")
	case in.InterestRate.IsNegative():
		return apperr.Validation("interest_rate must be >= 0")
	case in.FrequencyID == 0:
		return apperr.Validation("frequency_id is required")
	case in.InstallmentCount <= 0:
		return apperr.Validation("installment_count must be > 0")
	case !in.InstallmentAmount.IsPositive():
		return apperr.Validation("installment_amount must be > 0")
	}
	return nil
}

// Publish lists a new offer. The lender must currently hold the amount; the
// capital is only committed when a loan is originated.
func (u *Usecase) Publish(ctx context.Context, in PublishInput) (*domain.Offer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	l, err := u.lenders.GetByLenderID(ctx, in.LenderID)
	if err != nil {
		return nil, err
	}
	if in.Amount.GreaterThan(l.Capital) {
		return nil, &apperr.InsufficientCapitalError{Available: l.Capital, Required: in.Amount}
	}

	published := in.PublishedAt
	if published.IsZero() {
		published = u.now()
	}
	o := &domain.Offer{
		OfferID:           id.NewID32(),
		LenderID:          in.LenderID,
		Code:              strings.TrimSpace(in.Code),
		Amount:            in.Amount.Round(2),
		InterestRate:      in.InterestRate,
		FrequencyID:       in.FrequencyID,
		InstallmentCount:  in.InstallmentCount,
		InstallmentAmount: in.InstallmentAmount.Round(2),
		PublishedAt:       published.UTC().Truncate(24 * time.Hour),
		Active:            true,
	}
	if err := u.offers.Create(ctx, o); err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{
		"offer_id":  o.OfferID,
		"lender_id": o.LenderID,
		"amount":    o.Amount.StringFixed(2),
	}).Info("offer: published")
	return o, nil
}

func (u *Usecase) Get(ctx context.Context, offerID string) (*domain.Offer, error) {
	if !id.Valid(offerID) {
		return nil, apperr.Validation("offer_id must be 32-char lowercase hex")
	}
	return u.offers.GetByOfferID(ctx, offerID)
}

func (u *Usecase) ListByLender(ctx context.Context, lenderID string) ([]domain.Offer, error) {
	if !id.Valid(lenderID) {
		return nil, apperr.Validation("lender_id must be 32-char lowercase hex")
	}
	return u.offers.ListByLenderID(ctx, lenderID)
}
