package http

import (
	"net/http"

	"p2p-lending-backend/internal/usecase/loanrequest"
	"p2p-lending-backend/internal/usecase/offer"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type RequestHandler struct {
	uc     *loanrequest.Usecase
	offers *offer.Usecase
	log    logrus.FieldLogger
}

func NewRequestHandler(uc *loanrequest.Usecase, offers *offer.Usecase, log logrus.FieldLogger) *RequestHandler {
	return &RequestHandler{uc: uc, offers: offers, log: log}
}

type submitRequestReq struct {
	BorrowerID      string          `json:"borrower_id"      validate:"required,hex32"`
	RequestedAmount decimal.Decimal `json:"requested_amount" validate:"decgt0,dec2"`
	Comment         string          `json:"comment"          validate:"max=1000"`
}

func (h *RequestHandler) Submit(c echo.Context) error {
	var req submitRequestReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	if !actingAs(c, req.BorrowerID) {
		return forbidden(c)
	}
	r, err := h.uc.Submit(c.Request().Context(), loanrequest.SubmitInput{
		OfferID:         c.Param("offer_id"),
		BorrowerID:      req.BorrowerID,
		RequestedAmount: req.RequestedAmount,
		Comment:         req.Comment,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *RequestHandler) HasActive(c echo.Context) error {
	app, err := h.uc.HasActiveApplication(c.Request().Context(), c.Param("offer_id"), c.Param("borrower_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, app)
}

// ownsRequest checks the caller is the lender behind the request's offer.
// A false return means a response was already written.
func (h *RequestHandler) ownsRequest(c echo.Context, requestID string) (bool, error) {
	ctx := c.Request().Context()
	r, err := h.uc.Get(ctx, requestID)
	if err != nil {
		return false, writeError(c, h.log, err)
	}
	o, err := h.offers.Get(ctx, r.OfferID)
	if err != nil {
		return false, writeError(c, h.log, err)
	}
	if !actingAs(c, o.LenderID) {
		return false, forbidden(c)
	}
	return true, nil
}

func (h *RequestHandler) Accept(c echo.Context) error {
	requestID := c.Param("request_id")
	if ok, err := h.ownsRequest(c, requestID); !ok {
		return err
	}
	res, err := h.uc.Accept(c.Request().Context(), requestID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *RequestHandler) Reject(c echo.Context) error {
	requestID := c.Param("request_id")
	if ok, err := h.ownsRequest(c, requestID); !ok {
		return err
	}
	r, err := h.uc.Reject(c.Request().Context(), requestID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *RequestHandler) ByLender(c echo.Context) error {
	lenderID := c.Param("lender_id")
	if !actingAs(c, lenderID) {
		return forbidden(c)
	}
	list, err := h.uc.ListByLender(c.Request().Context(), lenderID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}
