package loanrequest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"p2p-lending-backend/internal/domain/apperr"
	"p2p-lending-backend/internal/domain/directory"
	domain "p2p-lending-backend/internal/domain/loanrequest"
	"p2p-lending-backend/internal/domain/offer"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/internal/usecase/origination"
	"p2p-lending-backend/pkg/id"

	"github.com/sirupsen/logrus"
)

// Originator creates a loan on repos bound to the caller's transaction.
type Originator interface {
	OriginateIn(ctx context.Context, r uow.Repos, in origination.OriginateInput) (*origination.LoanDTO, error)
}

type Usecase struct {
	uow        uow.UnitOfWork
	requests   domain.Repository
	offers     offer.Repository
	directory  directory.UserDirectory
	originator Originator
	termMonths int
	log        logrus.FieldLogger
	now        func() time.Time
}

func NewUsecase(
	tx uow.UnitOfWork,
	requests domain.Repository,
	offers offer.Repository,
	dir directory.UserDirectory,
	originator Originator,
	termMonths int,
	log logrus.FieldLogger,
) *Usecase {
	if termMonths <= 0 {
		termMonths = 6
	}
	return &Usecase{
		uow:        tx,
		requests:   requests,
		offers:     offers,
		directory:  dir,
		originator: originator,
		termMonths: termMonths,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func checkPair(offerID, borrowerID string) error {
	if !id.Valid(offerID) {
		return apperr.Validation("offer_id must be 32-char lowercase hex")
	}
	if !id.Valid(borrowerID) {
		return apperr.Validation("borrower_id must be 32-char lowercase hex")
	}
	return nil
}

// Submit files a pending application. The unique (offer, borrower,
// active_slot) index backs the duplicate check against concurrent submits.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*domain.LoanRequest, error) {
	if err := checkPair(in.OfferID, in.BorrowerID); err != nil {
		return nil, err
	}
	if !in.RequestedAmount.IsPositive() {
		return nil, apperr.Validation("requested_amount must be > 0")
	}

	switch _, err := u.requests.GetActive(ctx, in.OfferID, in.BorrowerID); {
	case err == nil:
		return nil, apperr.ErrDuplicateApplication
	case !errors.Is(err, apperr.ErrRequestNotFound):
		return nil, err
	}

	o, err := u.offers.GetByOfferID(ctx, in.OfferID)
	switch {
	case errors.Is(err, apperr.ErrOfferNotFound):
		return nil, apperr.ErrOfferInactive
	case err != nil:
		return nil, err
	case !o.Active:
		return nil, apperr.ErrOfferInactive
	}

	req := &domain.LoanRequest{
		RequestID:       id.NewID32(),
		OfferID:         in.OfferID,
		BorrowerID:      in.BorrowerID,
		RequestedAmount: in.RequestedAmount.Round(2),
		Comment:         u.enrichComment(ctx, in.BorrowerID, in.Comment),
	}
	req.SetStatus(domain.StatusPending)
	if err := u.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"request_id":  req.RequestID,
		"offer_id":    req.OfferID,
		"borrower_id": req.BorrowerID,
	}).Info("loan request: submitted")
	return req, nil
}

// enrichComment appends the borrower's contact details for the lender.
// Directory failures only cost the enrichment.
func (u *Usecase) enrichComment(ctx context.Context, borrowerID, comment string) string {
	var b strings.Builder
	if c := strings.TrimSpace(comment); c != "" {
		b.WriteString(c)
		b.WriteString(" | ")
	}

	var contact *directory.Contact
	if u.directory != nil {
		var err error
		contact, err = u.directory.ContactInfo(ctx, borrowerID)
		if err != nil && apperr.KindOf(err) != apperr.KindNotFound {
			u.log.WithError(err).WithField("borrower_id", borrowerID).Warn("loan request: contact lookup failed")
		}
	}
	if contact == nil {
		b.WriteString("Contact unavailable")
		return b.String()
	}
	fmt.Fprintf(&b, "Tel: %s | Email: %s", orND(contact.Phone), orND(contact.Email))
	return b.String()
}

func orND(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/D"
	}
	return s
}

// Accept originates the loan and marks the request accepted in one
// transaction with the request row locked. If origination fails the request
// stays pending.
func (u *Usecase) Accept(ctx context.Context, requestID string) (*AcceptResult, error) {
	if !id.Valid(requestID) {
		return nil, apperr.Validation("request_id must be 32-char lowercase hex")
	}
	log := u.log.WithField("request_id", requestID)

	var res AcceptResult
	err := u.uow.WithinRequestTx(ctx, requestID, func(r uow.Repos, req *domain.LoanRequest) error {
		if req.Status != domain.StatusPending {
			return apperr.ErrAlreadyProcessed
		}
		start := u.now()
		l, err := u.originator.OriginateIn(ctx, r, origination.OriginateInput{
			OfferID:    req.OfferID,
			BorrowerID: req.BorrowerID,
			StartDate:  start,
			EndDate:    start.AddDate(0, u.termMonths, 0),
		})
		if err != nil {
			return err
		}
		req.SetStatus(domain.StatusAccepted)
		if err := r.Requests.Save(ctx, req); err != nil {
			return err
		}
		res = AcceptResult{Request: req, Loan: l}
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("loan request: accept failed")
		return nil, err
	}

	log.WithField("loan_id", res.Loan.LoanID).Info("loan request: accepted")
	return &res, nil
}

func (u *Usecase) Reject(ctx context.Context, requestID string) (*domain.LoanRequest, error) {
	if !id.Valid(requestID) {
		return nil, apperr.Validation("request_id must be 32-char lowercase hex")
	}
	var out *domain.LoanRequest
	err := u.uow.WithinRequestTx(ctx, requestID, func(r uow.Repos, req *domain.LoanRequest) error {
		if req.Status != domain.StatusPending {
			return apperr.ErrAlreadyProcessed
		}
		req.SetStatus(domain.StatusRejected)
		if err := r.Requests.Save(ctx, req); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.WithField("request_id", requestID).Info("loan request: rejected")
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, requestID string) (*domain.LoanRequest, error) {
	if !id.Valid(requestID) {
		return nil, apperr.Validation("request_id must be 32-char lowercase hex")
	}
	return u.requests.GetByRequestID(ctx, requestID)
}

func (u *Usecase) HasActiveApplication(ctx context.Context, offerID, borrowerID string) (*ActiveApplication, error) {
	if err := checkPair(offerID, borrowerID); err != nil {
		return nil, err
	}
	req, err := u.requests.GetActive(ctx, offerID, borrowerID)
	switch {
	case errors.Is(err, apperr.ErrRequestNotFound):
		return &ActiveApplication{}, nil
	case err != nil:
		return nil, err
	}
	return &ActiveApplication{Applied: true, Status: req.Status}, nil
}

func (u *Usecase) ListByOffer(ctx context.Context, offerID string) ([]domain.View, error) {
	if !id.Valid(offerID) {
		return nil, apperr.Validation("offer_id must be 32-char lowercase hex")
	}
	return u.requests.ListByOfferID(ctx, offerID)
}

func (u *Usecase) ListByLender(ctx context.Context, lenderID string) ([]domain.View, error) {
	if !id.Valid(lenderID) {
		return nil, apperr.Validation("lender_id must be 32-char lowercase hex")
	}
	return u.requests.ListByLenderID(ctx, lenderID)
}
