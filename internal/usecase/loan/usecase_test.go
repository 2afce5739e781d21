package loan

import (
	"context"
	"fmt"
	"testing"
	"time"

	"p2p-lending-backend/internal/domain/apperr"
	domain "p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/testutil/loanmock"

	"github.com/shopspring/decimal"
)

const (
	LID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	BID = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	OID = "cccccccccccccccccccccccccccccccc"
)

func TestGet_Success(t *testing.T) {
	now := time.Now().UTC()
	uc := NewUsecase(&loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domain.Loan, error) {
			return &domain.Loan{LoanID: loanID, OfferID: OID, BorrowerID: BID, Active: true, CreatedAt: now}, nil
		},
	})
	l, err := uc.Get(context.Background(), LID)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if l.LoanID != LID || l.BorrowerID != BID {
		t.Fatalf("got %+v", l)
	}
}

func TestGet_NotFound(t *testing.T) {
	uc := NewUsecase(&loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domain.Loan, error) {
			return nil, apperr.ErrLoanNotFound
		},
	})
	if _, err := uc.Get(context.Background(), LID); err != apperr.ErrLoanNotFound {
		t.Fatalf("want ErrLoanNotFound, got %v", err)
	}
}

func TestInvalidIDs(t *testing.T) {
	uc := NewUsecase(&loanmock.Repo{})
	ctx := context.Background()
	calls := []struct {
		name string
		fn   func() error
	}{
		{"get", func() error { _, err := uc.Get(ctx, "short"); return err }},
		{"by lender", func() error { _, err := uc.ListByLender(ctx, "ZZ"); return err }},
		{"by borrower", func() error { _, err := uc.ListByBorrower(ctx, ""); return err }},
		{"pair offer", func() error { _, err := uc.GetByOfferAndBorrower(ctx, "x", BID); return err }},
		{"pair borrower", func() error { _, err := uc.GetByOfferAndBorrower(ctx, OID, "x"); return err }},
	}
	for _, c := range calls {
		t.Run(c.name, func(t *testing.T) {
			if k := apperr.KindOf(c.fn()); k != apperr.KindValidation {
				t.Fatalf("kind = %v, want validation", k)
			}
		})
	}
}

func TestListByLender_PassesThrough(t *testing.T) {
	var asked string
	uc := NewUsecase(&loanmock.Repo{
		ListByLenderIDFn: func(ctx context.Context, lenderID string) ([]domain.Detail, error) {
			asked = lenderID
			out := make([]domain.Detail, 3)
			for i := range out {
				out[i].LoanID = fmt.Sprintf("%032d", i)
				out[i].Amount = decimal.NewFromInt(100)
			}
			return out, nil
		},
	})
	got, err := uc.ListByLender(context.Background(), OID)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if asked != OID || len(got) != 3 {
		t.Fatalf("asked=%s len=%d", asked, len(got))
	}
}

func TestGetByOfferAndBorrower(t *testing.T) {
	uc := NewUsecase(&loanmock.Repo{
		GetByOfferAndBorrowerFn: func(ctx context.Context, offerID, borrowerID string) (*domain.Loan, error) {
			if offerID != OID || borrowerID != BID {
				return nil, fmt.Errorf("unexpected pair %s/%s", offerID, borrowerID)
			}
			return &domain.Loan{LoanID: LID, OfferID: offerID, BorrowerID: borrowerID}, nil
		},
	})
	l, err := uc.GetByOfferAndBorrower(context.Background(), OID, BID)
	if err != nil || l.LoanID != LID {
		t.Fatalf("got %+v err=%v", l, err)
	}
}
