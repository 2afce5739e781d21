package payment

import (
	"context"
	"strings"
	"time"

	"p2p-lending-backend/internal/domain/apperr"
	"p2p-lending-backend/internal/domain/lender"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/offer"
	domain "p2p-lending-backend/internal/domain/payment"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// TierRecomputer is the slice of the rank usecase a completed loan triggers.
type TierRecomputer interface {
	RecomputeTier(ctx context.Context, lenderID string) (lender.Tier, error)
}

type Usecase struct {
	uow      uow.UnitOfWork
	loans    loan.Repository
	offers   offer.Repository
	payments domain.Repository
	ranker   TierRecomputer
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewUsecase wires the payment ledger. ranker may be nil.
func NewUsecase(tx uow.UnitOfWork, loans loan.Repository, offers offer.Repository, payments domain.Repository, ranker TierRecomputer, log logrus.FieldLogger) *Usecase {
	return &Usecase{
		uow:      tx,
		loans:    loans,
		offers:   offers,
		payments: payments,
		ranker:   ranker,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func checkPayment(amount decimal.Decimal, methodID uint64, receipt string) error {
	if !amount.IsPositive() {
		return apperr.Validation("amount must be > 0")
	}
	if !amount.Equal(amount.Round(2)) {
		return apperr.Validation("amount must have at most 2 decimals")
	}
	if methodID == 0 {
		return apperr.Validation("method_id is required")
	}
	if strings.TrimSpace(receipt) == "" {
		return apperr.Validation("receipt_ref is required")
	}
	return nil
}

// outstanding is total owed minus paid, rounded to cents.
func outstanding(o *offer.Offer, paid decimal.Decimal) decimal.Decimal {
	return o.TotalOwed().Sub(paid).Round(2)
}

func methodExists(ctx context.Context, r uow.Repos, methodID uint64) error {
	ok, err := r.Methods.Exists(ctx, methodID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrMethodNotFound
	}
	return nil
}

// Record appends a payment while the loan row is locked, so the balance read
// and the insert cannot interleave with another payment on the same loan.
func (u *Usecase) Record(ctx context.Context, in RecordInput) (*PaymentDTO, error) {
	if !id.Valid(in.LoanID) {
		return nil, apperr.Validation("loan_id must be 32-char lowercase hex")
	}
	if err := checkPayment(in.Amount, in.MethodID, in.ReceiptRef); err != nil {
		return nil, err
	}
	paidAt := in.PaidAt
	if paidAt.IsZero() {
		paidAt = u.now()
	}
	log := u.log.WithField("loan_id", in.LoanID)

	var (
		p        *domain.Payment
		balance  decimal.Decimal
		lenderID string
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if err := methodExists(ctx, r, in.MethodID); err != nil {
			return err
		}
		o, err := r.Offers.GetByOfferID(ctx, l.OfferID)
		if err != nil {
			return err
		}
		paid, err := r.Payments.SumByLoanID(ctx, l.LoanID, "")
		if err != nil {
			return err
		}
		due := outstanding(o, paid)
		if !due.IsPositive() {
			return apperr.ErrLoanFullyPaid
		}
		if in.Amount.GreaterThan(due) {
			return &apperr.OverpaymentError{Balance: due, Attempted: in.Amount}
		}

		p = &domain.Payment{
			PaymentID:  id.NewID32(),
			LoanID:     l.LoanID,
			Amount:     in.Amount,
			MethodID:   in.MethodID,
			PaidAt:     paidAt.UTC(),
			ReceiptRef: strings.TrimSpace(in.ReceiptRef),
			Active:     true,
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}
		balance = due.Sub(in.Amount)
		lenderID = o.LenderID
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"payment_id": p.PaymentID,
		"amount":     p.Amount.StringFixed(2),
		"balance":    balance.StringFixed(2),
	}).Info("payment: recorded")

	if balance.IsZero() {
		u.loanCompleted(ctx, in.LoanID, lenderID)
	}
	return toDTO(p, balance), nil
}

// loanCompleted refreshes the lender's tier; the payment already committed,
// so a failure here is only logged.
func (u *Usecase) loanCompleted(ctx context.Context, loanID, lenderID string) {
	if u.ranker == nil {
		return
	}
	log := u.log.WithFields(logrus.Fields{"loan_id": loanID, "lender_id": lenderID})
	tier, err := u.ranker.RecomputeTier(ctx, lenderID)
	if err != nil {
		log.WithError(err).Warn("payment: tier recompute after loan completion failed")
		return
	}
	log.WithField("tier", tier.Name()).Info("payment: loan fully repaid")
}

// Update edits a payment under the same loan lock Record uses. The balance
// left by every other payment must still cover the new amount.
func (u *Usecase) Update(ctx context.Context, in UpdateInput) (*PaymentDTO, error) {
	if !id.Valid(in.PaymentID) {
		return nil, apperr.Validation("payment_id must be 32-char lowercase hex")
	}
	if err := checkPayment(in.Amount, in.MethodID, in.ReceiptRef); err != nil {
		return nil, err
	}
	cur, err := u.payments.GetByPaymentID(ctx, in.PaymentID)
	if err != nil {
		return nil, err
	}

	var (
		p       *domain.Payment
		balance decimal.Decimal
	)
	err = u.uow.WithinLoanTx(ctx, cur.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if err := methodExists(ctx, r, in.MethodID); err != nil {
			return err
		}
		var err error
		if p, err = r.Payments.GetByPaymentID(ctx, in.PaymentID); err != nil {
			return err
		}
		o, err := r.Offers.GetByOfferID(ctx, l.OfferID)
		if err != nil {
			return err
		}
		others, err := r.Payments.SumByLoanID(ctx, l.LoanID, p.PaymentID)
		if err != nil {
			return err
		}
		due := outstanding(o, others)
		if in.Amount.GreaterThan(due) {
			return &apperr.OverpaymentError{Balance: due, Attempted: in.Amount}
		}

		p.Amount = in.Amount
		p.MethodID = in.MethodID
		p.ReceiptRef = strings.TrimSpace(in.ReceiptRef)
		if in.Active != nil {
			p.Active = *in.Active
		}
		if err := r.Payments.Save(ctx, p); err != nil {
			return err
		}
		balance = due.Sub(in.Amount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"payment_id": p.PaymentID,
		"loan_id":    p.LoanID,
		"amount":     p.Amount.StringFixed(2),
	}).Info("payment: updated")
	return toDTO(p, balance), nil
}

func (u *Usecase) Get(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if !id.Valid(paymentID) {
		return nil, apperr.Validation("payment_id must be 32-char lowercase hex")
	}
	return u.payments.GetByPaymentID(ctx, paymentID)
}

func (u *Usecase) Balance(ctx context.Context, loanID string) (*BalanceDTO, error) {
	if !id.Valid(loanID) {
		return nil, apperr.Validation("loan_id must be 32-char lowercase hex")
	}
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	o, err := u.offers.GetByOfferID(ctx, l.OfferID)
	if err != nil {
		return nil, err
	}
	paid, err := u.payments.SumByLoanID(ctx, loanID, "")
	if err != nil {
		return nil, err
	}
	due := outstanding(o, paid)
	return &BalanceDTO{
		LoanID:    loanID,
		TotalOwed: o.TotalOwed(),
		TotalPaid: paid,
		Balance:   due,
		FullyPaid: !due.IsPositive(),
	}, nil
}

// ByLoan lists the loan's payments oldest first along with its balance.
func (u *Usecase) ByLoan(ctx context.Context, loanID string) (*LoanPaymentsDTO, error) {
	bal, err := u.Balance(ctx, loanID)
	if err != nil {
		return nil, err
	}
	ps, err := u.payments.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return &LoanPaymentsDTO{BalanceDTO: *bal, Payments: ps}, nil
}

func (u *Usecase) ByBorrower(ctx context.Context, borrowerID string) ([]domain.Detail, error) {
	if !id.Valid(borrowerID) {
		return nil, apperr.Validation("borrower_id must be 32-char lowercase hex")
	}
	return u.payments.ListByBorrowerID(ctx, borrowerID)
}

func (u *Usecase) ByOffer(ctx context.Context, offerID string) ([]domain.Payment, error) {
	if !id.Valid(offerID) {
		return nil, apperr.Validation("offer_id must be 32-char lowercase hex")
	}
	return u.payments.ListByOfferID(ctx, offerID)
}
