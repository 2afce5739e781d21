package requestmock

import (
	"context"
	"errors"

	domain "p2p-lending-backend/internal/domain/loanrequest"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("requestmock: method not implemented")

type Repo struct {
	CreateFn                  func(ctx context.Context, r *domain.LoanRequest) error
	SaveFn                    func(ctx context.Context, r *domain.LoanRequest) error
	GetByRequestIDFn          func(ctx context.Context, requestID string) (*domain.LoanRequest, error)
	GetByRequestIDForUpdateFn func(ctx context.Context, requestID string) (*domain.LoanRequest, error)
	GetActiveFn               func(ctx context.Context, offerID, borrowerID string) (*domain.LoanRequest, error)
	ListByOfferIDFn           func(ctx context.Context, offerID string) ([]domain.View, error)
	ListByLenderIDFn          func(ctx context.Context, lenderID string) ([]domain.View, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.LoanRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}
func (m *Repo) Save(ctx context.Context, r *domain.LoanRequest) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}
func (m *Repo) GetByRequestID(ctx context.Context, requestID string) (*domain.LoanRequest, error) {
	if m.GetByRequestIDFn != nil {
		return m.GetByRequestIDFn(ctx, requestID)
	}
	return nil, errUnimplemented
}
func (m *Repo) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*domain.LoanRequest, error) {
	if m.GetByRequestIDForUpdateFn != nil {
		return m.GetByRequestIDForUpdateFn(ctx, requestID)
	}
	return nil, errUnimplemented
}
func (m *Repo) GetActive(ctx context.Context, offerID, borrowerID string) (*domain.LoanRequest, error) {
	if m.GetActiveFn != nil {
		return m.GetActiveFn(ctx, offerID, borrowerID)
	}
	return nil, errUnimplemented
}
func (m *Repo) ListByOfferID(ctx context.Context, offerID string) ([]domain.View, error) {
	if m.ListByOfferIDFn != nil {
		return m.ListByOfferIDFn(ctx, offerID)
	}
	return nil, errUnimplemented
}
func (m *Repo) ListByLenderID(ctx context.Context, lenderID string) ([]domain.View, error) {
	if m.ListByLenderIDFn != nil {
		return m.ListByLenderIDFn(ctx, lenderID)
	}
	return nil, errUnimplemented
}
