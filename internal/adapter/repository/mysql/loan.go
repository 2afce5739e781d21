package mysql

import (
	"context"

	"p2p-lending-backend/internal/domain/apperr"
	loanDomain "p2p-lending-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

const loanDetailColumns = "loans.*, offers.lender_id, offers.amount, offers.interest_rate, offers.installment_count, offers.installment_amount"

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return apperr.Storage("create loan", r.db.WithContext(ctx).Create(l).Error)
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	if res.Error != nil {
		return nil, notFoundOr("get loan", res.Error, apperr.ErrLoanNotFound)
	}
	return &out, nil
}

// GetByLoanIDForUpdate must run inside a tx; the row stays locked until commit.
func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	if res.Error != nil {
		return nil, notFoundOr("lock loan", res.Error, apperr.ErrLoanNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) GetByOfferAndBorrower(ctx context.Context, offerID, borrowerID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("offer_id = ? AND borrower_id = ?", offerID, borrowerID).
		Order("id DESC").
		First(&out)
	if res.Error != nil {
		return nil, notFoundOr("get loan by offer and borrower", res.Error, apperr.ErrLoanNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) ListByLenderID(ctx context.Context, lenderID string) ([]loanDomain.Detail, error) {
	var out []loanDomain.Detail
	err := r.db.WithContext(ctx).
		Table("loans").
		Select(loanDetailColumns).
		Joins("JOIN offers ON offers.offer_id = loans.offer_id").
		Where("offers.lender_id = ?", lenderID).
		Order("loans.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Storage("list loans by lender", err)
	}
	return out, nil
}

func (r *LoanRepository) ListByBorrowerID(ctx context.Context, borrowerID string) ([]loanDomain.Detail, error) {
	var out []loanDomain.Detail
	err := r.db.WithContext(ctx).
		Table("loans").
		Select(loanDetailColumns).
		Joins("JOIN offers ON offers.offer_id = loans.offer_id").
		Where("loans.borrower_id = ?", borrowerID).
		Order("loans.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Storage("list loans by borrower", err)
	}
	return out, nil
}

func (r *LoanRepository) CompletedByLenderID(ctx context.Context, lenderID string) ([]loanDomain.Completed, error) {
	var out []loanDomain.Completed
	err := r.db.WithContext(ctx).
		Table("loans").
		Select("loans.loan_id, offers.amount").
		Joins("JOIN offers ON offers.offer_id = loans.offer_id").
		Joins("JOIN payments ON payments.loan_id = loans.loan_id AND payments.active = ?", true).
		Where("offers.lender_id = ? AND loans.active = ?", lenderID, true).
		Group("loans.loan_id, offers.amount, offers.installment_count").
		Having("COUNT(payments.id) >= offers.installment_count").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Storage("completed loans by lender", err)
	}
	return out, nil
}
