package mysql

import (
	"context"
	"errors"

	"p2p-lending-backend/internal/domain/apperr"
	requestDomain "p2p-lending-backend/internal/domain/loanrequest"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRequestRepository struct{ db *gorm.DB }

func NewLoanRequestRepository(db *gorm.DB) *LoanRequestRepository {
	return &LoanRequestRepository{db: db}
}

const requestViewColumns = "loan_requests.*, offers.code AS offer_code, offers.lender_id, " +
	"COALESCE(users.phone, '') AS borrower_phone, COALESCE(users.email, '') AS borrower_email"

// users is owned by the user subsystem; a missing row must not hide the request
const requestViewUsersJoin = "LEFT JOIN users ON users.user_id = loan_requests.borrower_id"

func (r *LoanRequestRepository) Create(ctx context.Context, req *requestDomain.LoanRequest) error {
	err := r.db.WithContext(ctx).Create(req).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.ErrDuplicateApplication
	}
	return apperr.Storage("create loan request", err)
}

func (r *LoanRequestRepository) Save(ctx context.Context, req *requestDomain.LoanRequest) error {
	err := r.db.WithContext(ctx).Save(req).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.ErrDuplicateApplication
	}
	return apperr.Storage("save loan request", err)
}

func (r *LoanRequestRepository) GetByRequestID(ctx context.Context, requestID string) (*requestDomain.LoanRequest, error) {
	var out requestDomain.LoanRequest
	res := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&out)
	if res.Error != nil {
		return nil, notFoundOr("get loan request", res.Error, apperr.ErrRequestNotFound)
	}
	return &out, nil
}

func (r *LoanRequestRepository) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*requestDomain.LoanRequest, error) {
	var out requestDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("request_id = ?", requestID).
		First(&out)
	if res.Error != nil {
		return nil, notFoundOr("lock loan request", res.Error, apperr.ErrRequestNotFound)
	}
	return &out, nil
}

func (r *LoanRequestRepository) GetActive(ctx context.Context, offerID, borrowerID string) (*requestDomain.LoanRequest, error) {
	var out requestDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Where("offer_id = ? AND borrower_id = ? AND status IN ?", offerID, borrowerID,
			[]requestDomain.Status{requestDomain.StatusPending, requestDomain.StatusAccepted}).
		Order("id DESC").
		First(&out)
	if res.Error != nil {
		return nil, notFoundOr("get active loan request", res.Error, apperr.ErrRequestNotFound)
	}
	return &out, nil
}

func (r *LoanRequestRepository) ListByOfferID(ctx context.Context, offerID string) ([]requestDomain.View, error) {
	var out []requestDomain.View
	err := r.db.WithContext(ctx).
		Table("loan_requests").
		Select(requestViewColumns).
		Joins("JOIN offers ON offers.offer_id = loan_requests.offer_id").
		Joins(requestViewUsersJoin).
		Where("loan_requests.offer_id = ?", offerID).
		Order("loan_requests.created_at DESC, loan_requests.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Storage("list loan requests by offer", err)
	}
	return out, nil
}

func (r *LoanRequestRepository) ListByLenderID(ctx context.Context, lenderID string) ([]requestDomain.View, error) {
	var out []requestDomain.View
	err := r.db.WithContext(ctx).
		Table("loan_requests").
		Select(requestViewColumns).
		Joins("JOIN offers ON offers.offer_id = loan_requests.offer_id").
		Joins(requestViewUsersJoin).
		Where("offers.lender_id = ?", lenderID).
		Order("loan_requests.created_at DESC, loan_requests.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Storage("list loan requests by lender", err)
	}
	return out, nil
}
