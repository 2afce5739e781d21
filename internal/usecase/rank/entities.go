package rank

import (
	"github.com/shopspring/decimal"

	"p2p-lending-backend/internal/domain/lender"
)

// Stats is the completed-loan history a tier is derived from.
type Stats struct {
	CompletedLoans     int             `json:"completed_loans"`
	PrincipalCompleted decimal.Decimal `json:"principal_completed"`
}

type TierDTO struct {
	LenderID string      `json:"lender_id"`
	Tier     lender.Tier `json:"tier"`
	Name     string      `json:"name"`
	Stats    Stats       `json:"stats"`
}
