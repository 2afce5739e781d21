package offer

import (
	"time"

	"github.com/shopspring/decimal"
)

// Table: offers. Published by lenders; read-only for the lending core.
type Offer struct {
	ID                uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	OfferID           string          `gorm:"column:offer_id;size:32;not null;uniqueIndex:ux_offers_offer_id" json:"offer_id"`
	LenderID          string          `gorm:"column:lender_id;size:32;not null;index:idx_offers_lender" json:"lender_id"`
	Code              string          `gorm:"column:code;size:64;not null;uniqueIndex:ux_offers_code" json:"code"`
	Amount            decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	InterestRate      decimal.Decimal `gorm:"column:interest_rate;type:decimal(6,4);not null" json:"interest_rate"`
	FrequencyID       uint64          `gorm:"column:frequency_id;not null" json:"frequency_id"`
	InstallmentCount  int             `gorm:"column:installment_count;not null" json:"installment_count"`
	InstallmentAmount decimal.Decimal `gorm:"column:installment_amount;type:decimal(18,2);not null" json:"installment_amount"`
	PublishedAt       time.Time       `gorm:"column:published_at;type:date;not null" json:"published_at"`
	Active            bool            `gorm:"column:active;not null" json:"active"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Offer) TableName() string { return "offers" }

// TotalOwed is installment_count * installment_amount.
func (o *Offer) TotalOwed() decimal.Decimal {
	return o.InstallmentAmount.Mul(decimal.NewFromInt(int64(o.InstallmentCount)))
}
