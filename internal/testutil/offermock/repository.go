package offermock

import (
	"context"
	"errors"

	domain "p2p-lending-backend/internal/domain/offer"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("offermock: method not implemented")

type Repo struct {
	CreateFn         func(ctx context.Context, o *domain.Offer) error
	GetByOfferIDFn   func(ctx context.Context, offerID string) (*domain.Offer, error)
	ListByLenderIDFn func(ctx context.Context, lenderID string) ([]domain.Offer, error)
}

func (m *Repo) Create(ctx context.Context, o *domain.Offer) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, o)
	}
	return nil
}
func (m *Repo) GetByOfferID(ctx context.Context, offerID string) (*domain.Offer, error) {
	if m.GetByOfferIDFn != nil {
		return m.GetByOfferIDFn(ctx, offerID)
	}
	return nil, errUnimplemented
}
func (m *Repo) ListByLenderID(ctx context.Context, lenderID string) ([]domain.Offer, error) {
	if m.ListByLenderIDFn != nil {
		return m.ListByLenderIDFn(ctx, lenderID)
	}
	return nil, errUnimplemented
}
