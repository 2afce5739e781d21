package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"validation", Validation("amount must be > 0"), KindValidation},
		{"not found sentinel", ErrLoanNotFound, KindNotFound},
		{"wrapped conflict", fmt.Errorf("accept: %w", ErrAlreadyProcessed), KindConflict},
		{"capital", &InsufficientCapitalError{Available: decimal.Zero, Required: decimal.NewFromInt(10)}, KindInsufficientCapital},
		{"overpayment", &OverpaymentError{Balance: decimal.NewFromInt(200), Attempted: decimal.NewFromInt(300)}, KindOverpayment},
		{"storage", Storage("insert loan", errors.New("deadlock")), KindStorage},
		{"untagged", errors.New("boom"), KindStorage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStorage_HidesDriverDetail(t *testing.T) {
	cause := errors.New("Error 1213: Deadlock found when trying to get lock")
	err := Storage("debit lender", cause)
	if strings.Contains(err.Error(), "Deadlock") {
		t.Fatalf("storage message leaks driver detail: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause must stay reachable for logs")
	}
	if !Retryable(err) {
		t.Fatal("storage errors are retryable")
	}
}

func TestStorage_KeepsDomainErrors(t *testing.T) {
	if err := Storage("get offer", ErrOfferNotFound); !errors.Is(err, ErrOfferNotFound) {
		t.Fatalf("want ErrOfferNotFound, got %v", err)
	}
	if Storage("noop", nil) != nil {
		t.Fatal("nil in, nil out")
	}
	if Retryable(ErrLoanFullyPaid) {
		t.Fatal("conflicts are not retryable")
	}
}

func TestTypedErrors_CarryAmounts(t *testing.T) {
	var ic *InsufficientCapitalError
	err := fmt.Errorf("originate: %w", &InsufficientCapitalError{Available: decimal.NewFromInt(0), Required: decimal.NewFromInt(1000)})
	if !errors.As(err, &ic) {
		t.Fatal("expected InsufficientCapitalError")
	}
	if !ic.Required.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("required = %s", ic.Required)
	}
	if got := ic.Error(); got != "insufficient capital: available 0.00, required 1000.00" {
		t.Fatalf("message = %q", got)
	}
}
