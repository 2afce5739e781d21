package lender

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tier is the lender's performance rank. The numeric value is what gets stored.
type Tier int

const (
	Tier1 Tier = 1 // Platinum, default for new accounts
	Tier2 Tier = 2 // Gold
	Tier3 Tier = 3 // Diamond
)

func (t Tier) Name() string {
	switch t {
	case Tier3:
		return "diamond"
	case Tier2:
		return "gold"
	default:
		return "platinum"
	}
}

// Table: lenders
type Lender struct {
	ID        uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LenderID  string          `gorm:"column:lender_id;size:32;not null;uniqueIndex:ux_lenders_lender_id" json:"lender_id"`
	Capital   decimal.Decimal `gorm:"column:capital;type:decimal(18,2);not null;default:0" json:"capital"`
	Tier      Tier            `gorm:"column:tier;not null;default:1" json:"tier"`
	Active    bool            `gorm:"column:active;not null" json:"active"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Lender) TableName() string { return "lenders" }
