package mysql

import (
	"context"

	"p2p-lending-backend/internal/domain/apperr"
	paymentDomain "p2p-lending-backend/internal/domain/payment"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	return apperr.Storage("create payment", r.db.WithContext(ctx).Create(p).Error)
}

func (r *PaymentRepository) Save(ctx context.Context, p *paymentDomain.Payment) error {
	return apperr.Storage("save payment", r.db.WithContext(ctx).Save(p).Error)
}

func (r *PaymentRepository) GetByPaymentID(ctx context.Context, paymentID string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	res := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&out)
	if res.Error != nil {
		return nil, notFoundOr("get payment", res.Error, apperr.ErrPaymentNotFound)
	}
	return &out, nil
}

func (r *PaymentRepository) SumByLoanID(ctx context.Context, loanID, excludePaymentID string) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).
		Model(&paymentDomain.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("loan_id = ?", loanID)
	if excludePaymentID != "" {
		q = q.Where("payment_id <> ?", excludePaymentID)
	}

	var total decimal.Decimal
	if err := q.Row().Scan(&total); err != nil {
		return decimal.Zero, apperr.Storage("sum payments", err)
	}
	return total, nil
}

func (r *PaymentRepository) ListByLoanID(ctx context.Context, loanID string) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("paid_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, apperr.Storage("list payments by loan", err)
	}
	return out, nil
}

func (r *PaymentRepository) ListByBorrowerID(ctx context.Context, borrowerID string) ([]paymentDomain.Detail, error) {
	var out []paymentDomain.Detail
	err := r.db.WithContext(ctx).
		Table("payments").
		Select("payments.*, loans.offer_id, loans.borrower_id, offers.lender_id, offers.installment_count, offers.installment_amount").
		Joins("JOIN loans ON loans.loan_id = payments.loan_id").
		Joins("JOIN offers ON offers.offer_id = loans.offer_id").
		Where("loans.borrower_id = ?", borrowerID).
		Order("payments.paid_at ASC, payments.id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Storage("list payments by borrower", err)
	}
	return out, nil
}

func (r *PaymentRepository) ListByOfferID(ctx context.Context, offerID string) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	err := r.db.WithContext(ctx).
		Table("payments").
		Select("payments.*").
		Joins("JOIN loans ON loans.loan_id = payments.loan_id").
		Where("loans.offer_id = ?", offerID).
		Order("payments.paid_at ASC, payments.id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Storage("list payments by offer", err)
	}
	return out, nil
}

type MethodRepository struct{ db *gorm.DB }

func NewMethodRepository(db *gorm.DB) *MethodRepository { return &MethodRepository{db: db} }

func (r *MethodRepository) Exists(ctx context.Context, methodID uint64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&paymentDomain.Method{}).
		Where("id = ? AND active = ?", methodID, true).
		Count(&n).Error
	if err != nil {
		return false, apperr.Storage("check payment method", err)
	}
	return n > 0, nil
}
