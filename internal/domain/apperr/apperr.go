// Package apperr holds the error taxonomy shared by every lending usecase.
//
// Callers branch on Kind: Validation, NotFound, Conflict, InsufficientCapital
// and Overpayment mean "fix your request"; Storage means "try again later".
package apperr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindInsufficientCapital
	KindOverpayment
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInsufficientCapital:
		return "insufficient_capital"
	case KindOverpayment:
		return "overpayment"
	case KindStorage:
		return "storage"
	}
	return "unknown"
}

// Error is a tagged error. Err is kept for logs and errors.Is, never for the message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Err }

// Is lets a wrapped copy match its sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e == t || (t.Kind == e.Kind && t.Msg == e.Msg && t.Err == nil)
}

func (e *Error) kind() Kind { return e.Kind }

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Msg: msg} }

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Msg: msg} }

// Storage hides the persistence failure behind a generic message.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae kinded
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: KindStorage, Msg: "internal storage error", Err: fmt.Errorf("%s: %w", op, err)}
}

var (
	ErrLenderNotFound  = NotFound("lender not found")
	ErrOfferNotFound   = NotFound("offer not found")
	ErrLoanNotFound    = NotFound("loan not found")
	ErrPaymentNotFound = NotFound("payment not found")
	ErrMethodNotFound  = NotFound("payment method not found")
	ErrRequestNotFound = NotFound("loan request not found")

	ErrOfferInactive        = Conflict("offer is not active")
	ErrDuplicateApplication = Conflict("borrower already has an active application for this offer")
	ErrAlreadyProcessed     = Conflict("loan request already processed")
	ErrLoanFullyPaid        = Conflict("loan is already fully paid")
	ErrLenderExists         = Conflict("lender profile already exists")
	ErrOfferCodeTaken       = Conflict("offer code already in use")
)

// InsufficientCapitalError carries the amounts shown to the lender.
type InsufficientCapitalError struct {
	Available decimal.Decimal `json:"available"`
	Required  decimal.Decimal `json:"required"`
}

func (e *InsufficientCapitalError) Error() string {
	return fmt.Sprintf("insufficient capital: available %s, required %s", e.Available.StringFixed(2), e.Required.StringFixed(2))
}

func (e *InsufficientCapitalError) kind() Kind { return KindInsufficientCapital }

// OverpaymentError carries the remaining balance and the rejected amount.
type OverpaymentError struct {
	Balance   decimal.Decimal `json:"balance"`
	Attempted decimal.Decimal `json:"attempted"`
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment exceeds balance: balance %s, attempted %s", e.Balance.StringFixed(2), e.Attempted.StringFixed(2))
}

func (e *OverpaymentError) kind() Kind { return KindOverpayment }

type kinded interface {
	error
	kind() Kind
}

// KindOf classifies err. Untagged errors are treated as storage faults.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var k kinded
	if errors.As(err, &k) {
		return k.kind()
	}
	return KindStorage
}

// Retryable is true only for storage faults.
func Retryable(err error) bool { return KindOf(err) == KindStorage }
