package offer

import (
	"time"

	"github.com/shopspring/decimal"
)

type PublishInput struct {
	LenderID          string
	Code              string
	Amount            decimal.Decimal
	InterestRate      decimal.Decimal
	FrequencyID       uint64
	InstallmentCount  int
	InstallmentAmount decimal.Decimal
	PublishedAt       time.Time // zero means today
}
