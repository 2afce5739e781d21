package sqlitedb

import (
	"testing"
	"time"

	"p2p-lending-backend/internal/domain/lender"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/offer"
	"p2p-lending-backend/internal/domain/payment"
	"p2p-lending-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedLender inserts an active Tier1 lender holding capital.
func SeedLender(t *testing.T, gdb *gorm.DB, capital int64) *lender.Lender {
	t.Helper()
	l := &lender.Lender{
		LenderID: id.NewID32(),
		Capital:  decimal.NewFromInt(capital),
		Tier:     lender.Tier1,
		Active:   true,
	}
	if err := gdb.Create(l).Error; err != nil {
		t.Fatalf("seed lender: %v", err)
	}
	return l
}

// SeedOffer inserts an active offer of amount owned by lenderID, repaid in
// count installments of installment each.
func SeedOffer(t *testing.T, gdb *gorm.DB, lenderID string, amount int64, count int, installment int64) *offer.Offer {
	t.Helper()
	oid := id.NewID32()
	o := &offer.Offer{
		OfferID:           oid,
		LenderID:          lenderID,
		Code:              "OF-" + oid[:8],
		Amount:            decimal.NewFromInt(amount),
		InterestRate:      decimal.RequireFromString("0.1200"),
		FrequencyID:       1,
		InstallmentCount:  count,
		InstallmentAmount: decimal.NewFromInt(installment),
		PublishedAt:       time.Now().UTC().Truncate(24 * time.Hour),
		Active:            true,
	}
	if err := gdb.Create(o).Error; err != nil {
		t.Fatalf("seed offer: %v", err)
	}
	return o
}

// SeedLoan inserts an active loan on offerID without touching capital.
func SeedLoan(t *testing.T, gdb *gorm.DB, offerID, borrowerID string) *loan.Loan {
	t.Helper()
	start := time.Now().UTC()
	l := &loan.Loan{
		LoanID:     id.NewID32(),
		OfferID:    offerID,
		BorrowerID: borrowerID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 6, 0),
		Active:     true,
	}
	if err := gdb.Create(l).Error; err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return l
}

// SeedPayment inserts an active payment via method 1.
func SeedPayment(t *testing.T, gdb *gorm.DB, loanID string, amount int64) *payment.Payment {
	t.Helper()
	p := &payment.Payment{
		PaymentID:  id.NewID32(),
		LoanID:     loanID,
		Amount:     decimal.NewFromInt(amount),
		MethodID:   1,
		PaidAt:     time.Now().UTC(),
		ReceiptRef: "seed",
		Active:     true,
	}
	if err := gdb.Create(p).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	return p
}

func SeedUser(t *testing.T, gdb *gorm.DB, userID, phone, email string) {
	t.Helper()
	if err := gdb.Create(&User{UserID: userID, Phone: phone, Email: email}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

// Capital rereads a lender's balance.
func Capital(t *testing.T, gdb *gorm.DB, lenderID string) decimal.Decimal {
	t.Helper()
	var l lender.Lender
	if err := gdb.Where("lender_id = ?", lenderID).First(&l).Error; err != nil {
		t.Fatalf("read lender: %v", err)
	}
	return l.Capital
}

func Count(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := gdb.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
