package http

import (
	"net/http"

	"p2p-lending-backend/internal/usecase/loan"
	"p2p-lending-backend/internal/usecase/payment"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type PaymentHandler struct {
	uc    *payment.Usecase
	loans *loan.Usecase
	log   logrus.FieldLogger
}

func NewPaymentHandler(uc *payment.Usecase, loans *loan.Usecase, log logrus.FieldLogger) *PaymentHandler {
	return &PaymentHandler{uc: uc, loans: loans, log: log}
}

type recordPaymentReq struct {
	Amount   decimal.Decimal `json:"amount"    validate:"decgt0,dec2"`
	MethodID uint64          `json:"method_id" validate:"required"`
	// YYYY-MM-DD, defaults to now
	PaidAt     string `json:"paid_at"     validate:"omitempty,datetime=2006-01-02"`
	ReceiptRef string `json:"receipt_ref" validate:"required,max=255"`
}

type updatePaymentReq struct {
	Amount     decimal.Decimal `json:"amount"      validate:"decgt0,dec2"`
	MethodID   uint64          `json:"method_id"   validate:"required"`
	ReceiptRef string          `json:"receipt_ref" validate:"required,max=255"`
	Active     *bool           `json:"active"`
}

// Record books an installment. Borrowers may only pay their own loans.
func (h *PaymentHandler) Record(c echo.Context) error {
	loanID := c.Param("loan_id")
	var req recordPaymentReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	ctx := c.Request().Context()
	l, err := h.loans.Get(ctx, loanID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if !actingAs(c, l.BorrowerID) {
		return forbidden(c)
	}

	paidAt, err := parseDate(req.PaidAt)
	if err != nil {
		return badBody(c)
	}
	dto, err := h.uc.Record(ctx, payment.RecordInput{
		LoanID:     loanID,
		Amount:     req.Amount,
		MethodID:   req.MethodID,
		PaidAt:     paidAt,
		ReceiptRef: req.ReceiptRef,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *PaymentHandler) Update(c echo.Context) error {
	var req updatePaymentReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Update(c.Request().Context(), payment.UpdateInput{
		PaymentID:  c.Param("payment_id"),
		Amount:     req.Amount,
		MethodID:   req.MethodID,
		ReceiptRef: req.ReceiptRef,
		Active:     req.Active,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PaymentHandler) ByLoan(c echo.Context) error {
	dto, err := h.uc.ByLoan(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PaymentHandler) ByBorrower(c echo.Context) error {
	list, err := h.uc.ByBorrower(c.Request().Context(), c.Param("borrower_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}
