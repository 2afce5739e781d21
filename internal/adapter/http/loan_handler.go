package http

import (
	"net/http"
	"time"

	"p2p-lending-backend/internal/usecase/loan"
	"p2p-lending-backend/internal/usecase/origination"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// parseDate reads an optional YYYY-MM-DD field; empty yields the zero time.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}

type LoanHandler struct {
	loans      *loan.Usecase
	originator *origination.Usecase
	log        logrus.FieldLogger
}

func NewLoanHandler(loans *loan.Usecase, originator *origination.Usecase, log logrus.FieldLogger) *LoanHandler {
	return &LoanHandler{loans: loans, originator: originator, log: log}
}

type originateLoanReq struct {
	OfferID    string `json:"offer_id"    validate:"required,hex32"`
	BorrowerID string `json:"borrower_id" validate:"required,hex32"`
	// Accept canonical date `YYYY-MM-DD` (aligns with schema DATE)
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   validate:"required,datetime=2006-01-02"`
}

func (h *LoanHandler) Originate(c echo.Context) error {
	var req originateLoanReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	if !actingAs(c, req.BorrowerID) {
		return forbidden(c)
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return badBody(c)
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return badBody(c)
	}

	dto, err := h.originator.Originate(c.Request().Context(), origination.OriginateInput{
		OfferID:    req.OfferID,
		BorrowerID: req.BorrowerID,
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) Get(c echo.Context) error {
	l, err := h.loans.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, l)
}

// ByOfferAndBorrower returns the borrower's most recent loan on an offer.
func (h *LoanHandler) ByOfferAndBorrower(c echo.Context) error {
	l, err := h.loans.GetByOfferAndBorrower(c.Request().Context(), c.Param("offer_id"), c.Param("borrower_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LoanHandler) ByLender(c echo.Context) error {
	list, err := h.loans.ListByLender(c.Request().Context(), c.Param("lender_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *LoanHandler) ByBorrower(c echo.Context) error {
	list, err := h.loans.ListByBorrower(c.Request().Context(), c.Param("borrower_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}
