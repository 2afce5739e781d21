package origination

import (
	"context"

	"p2p-lending-backend/internal/domain/apperr"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/pkg/id"

	"github.com/sirupsen/logrus"
)

type Usecase struct {
	uow uow.UnitOfWork
	log logrus.FieldLogger
}

func NewUsecase(tx uow.UnitOfWork, log logrus.FieldLogger) *Usecase {
	return &Usecase{uow: tx, log: log}
}

// Validate checks ids and dates; OriginateIn callers run it themselves.
func (in OriginateInput) Validate() error {
	if !id.Valid(in.OfferID) {
		return apperr.Validation("offer_id must be 32-char lowercase hex")
	}
	if !id.Valid(in.BorrowerID) {
		return apperr.Validation("borrower_id must be 32-char lowercase hex")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return apperr.Validation("start_date and end_date are required")
	}
	if !in.StartDate.Before(in.EndDate) {
		return apperr.Validation("start_date must be before end_date")
	}
	return nil
}

// Originate debits the lender by the offer amount and creates the loan in one
// transaction; either both happen or neither does.
func (u *Usecase) Originate(ctx context.Context, in OriginateInput) (*LoanDTO, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var dto *LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		dto, err = u.OriginateIn(ctx, r, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// OriginateIn runs the origination steps on repos already bound to the
// caller's transaction. Input must be validated by the caller.
func (u *Usecase) OriginateIn(ctx context.Context, r uow.Repos, in OriginateInput) (*LoanDTO, error) {
	log := u.log.WithFields(logrus.Fields{"offer_id": in.OfferID, "borrower_id": in.BorrowerID})

	o, err := r.Offers.GetByOfferID(ctx, in.OfferID)
	if err != nil {
		return nil, err
	}
	if !o.Active {
		return nil, apperr.ErrOfferInactive
	}

	balance, err := r.Lenders.Debit(ctx, o.LenderID, o.Amount)
	if err != nil {
		log.WithError(err).WithField("lender_id", o.LenderID).Warn("origination: debit refused")
		return nil, err
	}

	l := &loan.Loan{
		LoanID:     id.NewID32(),
		OfferID:    o.OfferID,
		BorrowerID: in.BorrowerID,
		StartDate:  in.StartDate.UTC(),
		EndDate:    in.EndDate.UTC(),
		Active:     true,
	}
	if err := r.Loans.Create(ctx, l); err != nil {
		// returning the error rolls the debit back with the tx
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"loan_id":        l.LoanID,
		"lender_id":      o.LenderID,
		"amount":         o.Amount.StringFixed(2),
		"lender_capital": balance.StringFixed(2),
	}).Info("origination: loan created")

	return &LoanDTO{
		LoanID:        l.LoanID,
		OfferID:       l.OfferID,
		BorrowerID:    l.BorrowerID,
		LenderID:      o.LenderID,
		Amount:        o.Amount,
		StartDate:     l.StartDate,
		EndDate:       l.EndDate,
		Active:        l.Active,
		CreatedAt:     l.CreatedAt,
		LenderCapital: balance,
	}, nil
}
