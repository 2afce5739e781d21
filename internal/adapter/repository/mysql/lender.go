package mysql

import (
	"context"
	"errors"

	"p2p-lending-backend/internal/domain/apperr"
	lenderDomain "p2p-lending-backend/internal/domain/lender"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LenderRepository struct{ db *gorm.DB }

func NewLenderRepository(db *gorm.DB) *LenderRepository { return &LenderRepository{db: db} }

func (r *LenderRepository) Create(ctx context.Context, l *lenderDomain.Lender) error {
	err := r.db.WithContext(ctx).Create(l).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.ErrLenderExists
	}
	return apperr.Storage("create lender", err)
}

func (r *LenderRepository) GetByLenderID(ctx context.Context, lenderID string) (*lenderDomain.Lender, error) {
	var out lenderDomain.Lender
	res := r.db.WithContext(ctx).Where("lender_id = ?", lenderID).First(&out)
	if res.Error != nil {
		return nil, notFoundOr("get lender", res.Error, apperr.ErrLenderNotFound)
	}
	return &out, nil
}

func (r *LenderRepository) GetByLenderIDForUpdate(ctx context.Context, lenderID string) (*lenderDomain.Lender, error) {
	var out lenderDomain.Lender
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("lender_id = ?", lenderID).
		First(&out)
	if res.Error != nil {
		return nil, notFoundOr("lock lender", res.Error, apperr.ErrLenderNotFound)
	}
	return &out, nil
}

func (r *LenderRepository) Save(ctx context.Context, l *lenderDomain.Lender) error {
	return apperr.Storage("save lender", r.db.WithContext(ctx).Save(l).Error)
}

// Debit is one conditional UPDATE: predicate and mutation execute together,
// so concurrent debits against one lender can never overdraw it.
func (r *LenderRepository) Debit(ctx context.Context, lenderID string, amount decimal.Decimal) (decimal.Decimal, error) {
	res := r.db.WithContext(ctx).
		Model(&lenderDomain.Lender{}).
		Where("lender_id = ? AND capital >= ?", lenderID, amount).
		Update("capital", gorm.Expr("capital - ?", amount))
	if res.Error != nil {
		return decimal.Zero, apperr.Storage("debit lender", res.Error)
	}

	cur, err := r.GetByLenderID(ctx, lenderID)
	if err != nil {
		return decimal.Zero, err
	}
	if res.RowsAffected == 0 {
		return cur.Capital, &apperr.InsufficientCapitalError{Available: cur.Capital, Required: amount}
	}
	return cur.Capital, nil
}

func (r *LenderRepository) Credit(ctx context.Context, lenderID string, amount decimal.Decimal) (decimal.Decimal, error) {
	res := r.db.WithContext(ctx).
		Model(&lenderDomain.Lender{}).
		Where("lender_id = ?", lenderID).
		Update("capital", gorm.Expr("capital + ?", amount))
	if res.Error != nil {
		return decimal.Zero, apperr.Storage("credit lender", res.Error)
	}
	if res.RowsAffected == 0 {
		return decimal.Zero, apperr.ErrLenderNotFound
	}
	cur, err := r.GetByLenderID(ctx, lenderID)
	if err != nil {
		return decimal.Zero, err
	}
	return cur.Capital, nil
}

func (r *LenderRepository) SetTier(ctx context.Context, lenderID string, tier lenderDomain.Tier) error {
	res := r.db.WithContext(ctx).
		Model(&lenderDomain.Lender{}).
		Where("lender_id = ?", lenderID).
		Update("tier", tier)
	if res.Error != nil {
		return apperr.Storage("set lender tier", res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL reports 0 affected rows when the value is unchanged; tell the cases apart.
		if _, err := r.GetByLenderID(ctx, lenderID); err != nil {
			return err
		}
	}
	return nil
}

func (r *LenderRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&lenderDomain.Lender{}).
		Where("active = ?", true).
		Order("id ASC").
		Pluck("lender_id", &ids).Error
	if err != nil {
		return nil, apperr.Storage("list active lenders", err)
	}
	return ids, nil
}
