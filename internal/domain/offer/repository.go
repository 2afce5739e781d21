package offer

import "context"

type Repository interface {
	Create(ctx context.Context, o *Offer) error
	GetByOfferID(ctx context.Context, offerID string) (*Offer, error)
	ListByLenderID(ctx context.Context, lenderID string) ([]Offer, error)
}
