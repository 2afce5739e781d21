package http

import (
	"errors"
	"net/http"

	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/domain/apperr"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type capitalErrorResponse struct {
	ErrorResponse
	Available decimal.Decimal `json:"available"`
	Required  decimal.Decimal `json:"required"`
}

type overpaymentErrorResponse struct {
	ErrorResponse
	Balance   decimal.Decimal `json:"balance"`
	Attempted decimal.Decimal `json:"attempted"`
}

// writeError maps usecase errors → HTTP codes. Storage faults are logged with
// their cause and answered with a generic message.
func writeError(c echo.Context, log logrus.FieldLogger, err error) error {
	kind := apperr.KindOf(err)
	base := ErrorResponse{Error: err.Error(), Kind: kind.String()}

	switch kind {
	case apperr.KindValidation:
		return c.JSON(http.StatusUnprocessableEntity, base)
	case apperr.KindNotFound:
		return c.JSON(http.StatusNotFound, base)
	case apperr.KindConflict:
		return c.JSON(http.StatusConflict, base)
	case apperr.KindInsufficientCapital:
		var ic *apperr.InsufficientCapitalError
		errors.As(err, &ic)
		return c.JSON(http.StatusUnprocessableEntity, capitalErrorResponse{
			ErrorResponse: base, Available: ic.Available, Required: ic.Required,
		})
	case apperr.KindOverpayment:
		var op *apperr.OverpaymentError
		errors.As(err, &op)
		return c.JSON(http.StatusUnprocessableEntity, overpaymentErrorResponse{
			ErrorResponse: base, Balance: op.Balance, Attempted: op.Attempted,
		})
	}

	log.WithError(err).WithFields(logrus.Fields{
		"method": c.Request().Method,
		"path":   c.Path(),
	}).Error("request failed")
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: "internal storage error",
		Kind:  apperr.KindStorage.String(),
	})
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

func invalid(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}

// bindValid binds the body into req and validates it. A false return means a
// response was already written.
func bindValid(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, badBody(c)
	}
	if err := c.Validate(req); err != nil {
		return false, invalid(c, err)
	}
	return true, nil
}

// actingAs reports whether the caller may act for userID: admins act for
// anyone, everyone else only for themselves.
func actingAs(c echo.Context, userID string) bool {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return false
	}
	return p.IsAdmin() || p.Subject == userID
}

func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, ErrorResponse{Error: "not allowed to act for this resource"})
}
