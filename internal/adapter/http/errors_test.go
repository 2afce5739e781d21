package http

import (
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"p2p-lending-backend/internal/domain/apperr"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_StatusByKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		kind string
	}{
		{"validation", apperr.Validation("amount must be > 0"), stdhttp.StatusUnprocessableEntity, "validation"},
		{"not found", apperr.ErrOfferNotFound, stdhttp.StatusNotFound, "not_found"},
		{"conflict", apperr.ErrDuplicateApplication, stdhttp.StatusConflict, "conflict"},
		{"capital", &apperr.InsufficientCapitalError{Available: decimal.NewFromInt(5), Required: decimal.NewFromInt(9)}, stdhttp.StatusUnprocessableEntity, "insufficient_capital"},
		{"overpayment", &apperr.OverpaymentError{Balance: decimal.NewFromInt(200), Attempted: decimal.NewFromInt(300)}, stdhttp.StatusUnprocessableEntity, "overpayment"},
		{"storage", apperr.Storage("insert loan", errors.New("Error 1213: Deadlock")), stdhttp.StatusInternalServerError, "storage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, _ := test.NewNullLogger()
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(stdhttp.MethodPost, "/x", nil), rec)

			require.NoError(t, writeError(c, log, tt.err))
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.kind, decode[errBody](t, rec).Kind)
		})
	}
}

func TestWriteError_StorageIsLoggedNotLeaked(t *testing.T) {
	log, hook := test.NewNullLogger()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(stdhttp.MethodGet, "/loans/x", nil), rec)

	require.NoError(t, writeError(c, log, errors.New("dial tcp 10.0.0.7:3306: connection refused")))
	assert.Equal(t, stdhttp.StatusInternalServerError, rec.Code)
	assert.False(t, strings.Contains(rec.Body.String(), "10.0.0.7"), rec.Body.String())
	assert.Equal(t, "internal storage error", decode[errBody](t, rec).Error)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Data[logrus.ErrorKey].(error).Error(), "connection refused")
}
