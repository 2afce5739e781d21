package lender

import (
	"time"

	domain "p2p-lending-backend/internal/domain/lender"

	"github.com/shopspring/decimal"
)

type CreateProfileInput struct {
	LenderID string
	Capital  decimal.Decimal
	Active   bool
}

// UpdateProfileInput changes only the fields that are set.
type UpdateProfileInput struct {
	LenderID string
	Capital  *decimal.Decimal
	Active   *bool
}

type ProfileDTO struct {
	LenderID  string          `json:"lender_id"`
	Capital   decimal.Decimal `json:"capital"`
	Tier      domain.Tier     `json:"tier"`
	TierName  string          `json:"tier_name"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type DepositDTO struct {
	LenderID string          `json:"lender_id"`
	Amount   decimal.Decimal `json:"amount"`
	Capital  decimal.Decimal `json:"capital"`
}

func toDTO(l *domain.Lender) *ProfileDTO {
	return &ProfileDTO{
		LenderID:  l.LenderID,
		Capital:   l.Capital,
		Tier:      l.Tier,
		TierName:  l.Tier.Name(),
		Active:    l.Active,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
