package mysql

import (
	"context"
	"errors"

	"p2p-lending-backend/internal/domain/apperr"
	offerDomain "p2p-lending-backend/internal/domain/offer"

	"gorm.io/gorm"
)

type OfferRepository struct{ db *gorm.DB }

func NewOfferRepository(db *gorm.DB) *OfferRepository { return &OfferRepository{db: db} }

func (r *OfferRepository) Create(ctx context.Context, o *offerDomain.Offer) error {
	err := r.db.WithContext(ctx).Create(o).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.ErrOfferCodeTaken
	}
	return apperr.Storage("create offer", err)
}

func (r *OfferRepository) GetByOfferID(ctx context.Context, offerID string) (*offerDomain.Offer, error) {
	var out offerDomain.Offer
	res := r.db.WithContext(ctx).Where("offer_id = ?", offerID).First(&out)
	if res.Error != nil {
		return nil, notFoundOr("get offer", res.Error, apperr.ErrOfferNotFound)
	}
	return &out, nil
}

func (r *OfferRepository) ListByLenderID(ctx context.Context, lenderID string) ([]offerDomain.Offer, error) {
	var out []offerDomain.Offer
	err := r.db.WithContext(ctx).
		Where("lender_id = ?", lenderID).
		Order("published_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, apperr.Storage("list offers by lender", err)
	}
	return out, nil
}
