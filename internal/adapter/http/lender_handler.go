package http

import (
	"net/http"

	"p2p-lending-backend/internal/usecase/lender"
	"p2p-lending-backend/internal/usecase/rank"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type LenderHandler struct {
	uc   *lender.Usecase
	rank *rank.Usecase
	log  logrus.FieldLogger
}

func NewLenderHandler(uc *lender.Usecase, rk *rank.Usecase, log logrus.FieldLogger) *LenderHandler {
	return &LenderHandler{uc: uc, rank: rk, log: log}
}

type createLenderReq struct {
	LenderID string          `json:"lender_id" validate:"required,hex32"`
	Capital  decimal.Decimal `json:"capital"   validate:"decgte0,dec2"`
	// defaults to true
	Active *bool `json:"active"`
}

type saveLenderReq struct {
	Capital *decimal.Decimal `json:"capital" validate:"omitempty,decgte0,dec2"`
	Active  *bool            `json:"active"`
}

type depositReq struct {
	Amount decimal.Decimal `json:"amount" validate:"decgt0,dec2"`
}

func (h *LenderHandler) Create(c echo.Context) error {
	var req createLenderReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	if !actingAs(c, req.LenderID) {
		return forbidden(c)
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	dto, err := h.uc.CreateProfile(c.Request().Context(), lender.CreateProfileInput{
		LenderID: req.LenderID,
		Capital:  req.Capital,
		Active:   active,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// Save is an upsert: 201 when the profile was created, 200 when updated.
func (h *LenderHandler) Save(c echo.Context) error {
	lenderID := c.Param("lender_id")
	if !actingAs(c, lenderID) {
		return forbidden(c)
	}
	var req saveLenderReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, created, err := h.uc.SaveProfile(c.Request().Context(), lender.UpdateProfileInput{
		LenderID: lenderID,
		Capital:  req.Capital,
		Active:   req.Active,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	if created {
		return c.JSON(http.StatusCreated, dto)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LenderHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("lender_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LenderHandler) Deposit(c echo.Context) error {
	lenderID := c.Param("lender_id")
	if !actingAs(c, lenderID) {
		return forbidden(c)
	}
	var req depositReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Deposit(c.Request().Context(), lenderID, req.Amount)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LenderHandler) RecomputeTier(c echo.Context) error {
	lenderID := c.Param("lender_id")
	if !actingAs(c, lenderID) {
		return forbidden(c)
	}
	ctx := c.Request().Context()
	if _, err := h.uc.Get(ctx, lenderID); err != nil {
		return writeError(c, h.log, err)
	}
	dto, err := h.rank.Recompute(ctx, lenderID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
