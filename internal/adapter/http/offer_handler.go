package http

import (
	"net/http"

	"p2p-lending-backend/internal/usecase/loanrequest"
	"p2p-lending-backend/internal/usecase/offer"
	"p2p-lending-backend/internal/usecase/payment"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type OfferHandler struct {
	uc       *offer.Usecase
	requests *loanrequest.Usecase
	payments *payment.Usecase
	log      logrus.FieldLogger
}

func NewOfferHandler(uc *offer.Usecase, requests *loanrequest.Usecase, payments *payment.Usecase, log logrus.FieldLogger) *OfferHandler {
	return &OfferHandler{uc: uc, requests: requests, payments: payments, log: log}
}

type publishOfferReq struct {
	LenderID          string          `json:"lender_id"          validate:"required,hex32"`
	Code              string          `json:"code"               validate:"required,max=32"`
	Amount            decimal.Decimal `json:"amount"             validate:"decgt0,dec2"`
	InterestRate      decimal.Decimal `json:"interest_rate"      validate:"decgte0"`
	FrequencyID       uint64          `json:"frequency_id"       validate:"required"`
	InstallmentCount  int             `json:"installment_count"  validate:"required,gte=1"`
	InstallmentAmount decimal.Decimal `json:"installment_amount" validate:"decgt0,dec2"`
	// YYYY-MM-DD, defaults to today
	PublishedAt string `json:"published_at" validate:"omitempty,datetime=2006-01-02"`
}

func (h *OfferHandler) Publish(c echo.Context) error {
	var req publishOfferReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	if !actingAs(c, req.LenderID) {
		return forbidden(c)
	}
	in := offer.PublishInput{
		LenderID:          req.LenderID,
		Code:              req.Code,
		Amount:            req.Amount,
		InterestRate:      req.InterestRate,
		FrequencyID:       req.FrequencyID,
		InstallmentCount:  req.InstallmentCount,
		InstallmentAmount: req.InstallmentAmount,
	}
	publishedAt, err := parseDate(req.PublishedAt)
	if err != nil {
		return badBody(c)
	}
	in.PublishedAt = publishedAt
	o, err := h.uc.Publish(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *OfferHandler) Get(c echo.Context) error {
	o, err := h.uc.Get(c.Request().Context(), c.Param("offer_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OfferHandler) ByLender(c echo.Context) error {
	list, err := h.uc.ListByLender(c.Request().Context(), c.Param("lender_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *OfferHandler) Payments(c echo.Context) error {
	list, err := h.payments.ByOffer(c.Request().Context(), c.Param("offer_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Requests lists applications on an offer; only its lender (or an admin) may see them.
func (h *OfferHandler) Requests(c echo.Context) error {
	ctx := c.Request().Context()
	o, err := h.uc.Get(ctx, c.Param("offer_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	if !actingAs(c, o.LenderID) {
		return forbidden(c)
	}
	list, err := h.requests.ListByOffer(ctx, o.OfferID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}
