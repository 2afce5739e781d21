package http

import (
	"bytes"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/adapter/repository/mysql"
	"p2p-lending-backend/internal/infrastructure/logging"
	"p2p-lending-backend/internal/testutil/sqlitedb"
	"p2p-lending-backend/internal/usecase/lender"
	"p2p-lending-backend/internal/usecase/loan"
	"p2p-lending-backend/internal/usecase/loanrequest"
	"p2p-lending-backend/internal/usecase/offer"
	"p2p-lending-backend/internal/usecase/origination"
	"p2p-lending-backend/internal/usecase/payment"
	"p2p-lending-backend/internal/usecase/rank"
	"p2p-lending-backend/pkg/id"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var apiSecret = []byte("api-test-secret")

// -------- helpers --------

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

type apiEnv struct {
	e  *echo.Echo
	db *gorm.DB
}

func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	gdb := sqlitedb.Open(t)
	log := logging.Discard()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	tx := mysql.NewGormUoW(gdb)
	lenders := mysql.NewLenderRepository(gdb)
	offers := mysql.NewOfferRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	payments := mysql.NewPaymentRepository(gdb)
	requests := mysql.NewLoanRequestRepository(gdb)

	ranker := rank.NewUsecase(lenders, loans, log)
	originator := origination.NewUsecase(tx, log)
	lenderUC := lender.NewUsecase(tx, lenders, ranker, log)
	offerUC := offer.NewUsecase(offers, lenders, log)
	loanUC := loan.NewUsecase(loans)
	paymentUC := payment.NewUsecase(tx, loans, offers, payments, ranker, log)
	requestUC := loanrequest.NewUsecase(tx, requests, offers, mysql.NewUserDirectory(gdb), originator, 6, log)

	e := newEchoWithValidator()
	Register(e, Handlers{
		Health:   NewHandler(),
		Lenders:  NewLenderHandler(lenderUC, ranker, log),
		Offers:   NewOfferHandler(offerUC, requestUC, paymentUC, log),
		Loans:    NewLoanHandler(loanUC, originator, log),
		Payments: NewPaymentHandler(paymentUC, loanUC, log),
		Requests: NewRequestHandler(requestUC, offerUC, log),
	}, middleware.JWTAuth(apiSecret), middleware.IdempotencyMiddleware(rdb, time.Minute, log))
	return &apiEnv{e: e, db: gdb}
}

func token(t *testing.T, sub, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(apiSecret)
	require.NoError(t, err)
	return s
}

// send issues one request; an empty reqID gets a fresh one.
func (a *apiEnv) send(t *testing.T, method, path, sub, role, reqID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		rd = mustJSON(body)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if sub != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, sub, role))
	}
	if reqID == "" {
		reqID = id.NewID32()
	}
	req.Header.Set("Ax-Request-Id", reqID)
	req.Header.Set("Ax-Request-At", time.Now().UTC().Format(time.RFC3339))
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *apiEnv) do(t *testing.T, method, path, sub, role string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return a.send(t, method, path, sub, role, "", body)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errBody struct {
	Error     string          `json:"error"`
	Kind      string          `json:"kind"`
	Available decimal.Decimal `json:"available"`
	Required  decimal.Decimal `json:"required"`
	Balance   decimal.Decimal `json:"balance"`
	Attempted decimal.Decimal `json:"attempted"`
}

// -------- tests --------

func TestRoutes_AuthRequiredExceptHealth(t *testing.T) {
	a := newAPI(t)

	rec := a.do(t, stdhttp.MethodGet, "/health", "", "", nil)
	assert.Equal(t, stdhttp.StatusOK, rec.Code)

	rec = a.do(t, stdhttp.MethodGet, "/lenders/"+id.NewID32(), "", "", nil)
	assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)

	// borrowers cannot use lender routes
	rec = a.do(t, stdhttp.MethodPost, "/lenders", id.NewID32(), middleware.RoleBorrower, map[string]any{"lender_id": id.NewID32()})
	assert.Equal(t, stdhttp.StatusForbidden, rec.Code)
}

func TestLenderRoutes(t *testing.T) {
	a := newAPI(t)
	me := id.NewID32()

	// acting for someone else
	rec := a.do(t, stdhttp.MethodPost, "/lenders", me, middleware.RoleLender, map[string]any{"lender_id": id.NewID32(), "capital": "10"})
	require.Equal(t, stdhttp.StatusForbidden, rec.Code)

	rec = a.do(t, stdhttp.MethodPost, "/lenders", me, middleware.RoleLender, map[string]any{"lender_id": me, "capital": "1.234"})
	require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	er := decode[ErrorResponse](t, rec)
	assert.True(t, containsFieldMsg(er.Details, "Capital", "at most 2 decimal places"), "%+v", er.Details)

	rec = a.do(t, stdhttp.MethodPost, "/lenders", me, middleware.RoleLender, map[string]any{"lender_id": me, "capital": "500"})
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	prof := decode[lender.ProfileDTO](t, rec)
	assert.True(t, prof.Active)
	assert.Equal(t, "platinum", prof.TierName)

	rec = a.do(t, stdhttp.MethodPost, "/lenders", me, middleware.RoleLender, map[string]any{"lender_id": me})
	require.Equal(t, stdhttp.StatusConflict, rec.Code)

	rec = a.do(t, stdhttp.MethodPost, "/lenders/"+me+"/deposits", me, middleware.RoleLender, map[string]any{"amount": 250.5})
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	dep := decode[lender.DepositDTO](t, rec)
	assert.True(t, dep.Capital.Equal(decimal.RequireFromString("750.5")), dep.Capital.String())

	rec = a.do(t, stdhttp.MethodPost, "/lenders/"+me+"/deposits", me, middleware.RoleLender, map[string]any{"amount": 0})
	require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)

	rec = a.do(t, stdhttp.MethodGet, "/lenders/"+me, id.NewID32(), middleware.RoleBorrower, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	rec = a.do(t, stdhttp.MethodGet, "/lenders/"+id.NewID32(), me, middleware.RoleLender, nil)
	require.Equal(t, stdhttp.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[errBody](t, rec).Kind)

	rec = a.do(t, stdhttp.MethodPost, "/lenders/"+me+"/tier", me, middleware.RoleLender, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "platinum", decode[rank.TierDTO](t, rec).Name)
}

func TestLenderSave_Upsert(t *testing.T) {
	a := newAPI(t)
	me := id.NewID32()
	admin := id.NewID32()

	rec := a.do(t, stdhttp.MethodPut, "/lenders/"+me, admin, middleware.RoleAdmin, map[string]any{"capital": "100"})
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(t, stdhttp.MethodPut, "/lenders/"+me, me, middleware.RoleLender, map[string]any{"active": false})
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	prof := decode[lender.ProfileDTO](t, rec)
	assert.False(t, prof.Active)
	assert.True(t, prof.Capital.Equal(decimal.NewFromInt(100)))

	rec = a.do(t, stdhttp.MethodPut, "/lenders/"+me, id.NewID32(), middleware.RoleLender, map[string]any{"active": true})
	require.Equal(t, stdhttp.StatusForbidden, rec.Code)
}

func TestOfferAndOrigination(t *testing.T) {
	a := newAPI(t)
	l := sqlitedb.SeedLender(t, a.db, 1000)
	borrower := id.NewID32()

	publish := map[string]any{
		"lender_id":          l.LenderID,
		"code":               "OF-API-1",
		"amount":             "2000",
		"interest_rate":      "0.12",
		"frequency_id":       1,
		"installment_count":  12,
		"installment_amount": "100",
	}
	rec := a.do(t, stdhttp.MethodPost, "/offers", l.LenderID, middleware.RoleLender, publish)
	require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	er := decode[errBody](t, rec)
	assert.Equal(t, "insufficient_capital", er.Kind)
	assert.True(t, er.Available.Equal(decimal.NewFromInt(1000)))
	assert.True(t, er.Required.Equal(decimal.NewFromInt(2000)))

	publish["amount"] = "1000"
	publish["published_at"] = "2026-01-15"
	rec = a.do(t, stdhttp.MethodPost, "/offers", l.LenderID, middleware.RoleLender, publish)
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	o := decode[struct {
		OfferID string `json:"offer_id"`
	}](t, rec)

	rec = a.do(t, stdhttp.MethodGet, "/offers/"+o.OfferID, borrower, middleware.RoleBorrower, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	body := map[string]any{
		"offer_id":    o.OfferID,
		"borrower_id": borrower,
		"start_date":  "2026-02-01",
		"end_date":    "2026-08-01",
	}
	// someone else's borrower id
	rec = a.do(t, stdhttp.MethodPost, "/loans", id.NewID32(), middleware.RoleBorrower, body)
	require.Equal(t, stdhttp.StatusForbidden, rec.Code)

	rec = a.do(t, stdhttp.MethodPost, "/loans", borrower, middleware.RoleBorrower, body)
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	created := decode[origination.LoanDTO](t, rec)
	assert.True(t, created.LenderCapital.IsZero())
	assert.Equal(t, l.LenderID, created.LenderID)

	// capital is exhausted now
	body["borrower_id"] = borrower
	rec = a.do(t, stdhttp.MethodPost, "/loans", borrower, middleware.RoleBorrower, body)
	require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "insufficient_capital", decode[errBody](t, rec).Kind)
	assert.True(t, sqlitedb.Capital(t, a.db, l.LenderID).IsZero())

	rec = a.do(t, stdhttp.MethodGet, "/loans/"+created.LoanID, borrower, middleware.RoleBorrower, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	rec = a.do(t, stdhttp.MethodGet, "/borrowers/"+borrower+"/loans", borrower, middleware.RoleBorrower, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)
	rec = a.do(t, stdhttp.MethodGet, "/lenders/"+l.LenderID+"/loans", l.LenderID, middleware.RoleLender, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = a.do(t, stdhttp.MethodGet, "/lenders/"+l.LenderID+"/offers", borrower, middleware.RoleBorrower, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	offers := decode[[]struct {
		OfferID string `json:"offer_id"`
		Code    string `json:"code"`
	}](t, rec)
	require.Len(t, offers, 1)
	assert.Equal(t, "OF-API-1", offers[0].Code)

	rec = a.do(t, stdhttp.MethodGet, "/offers/"+o.OfferID+"/borrowers/"+borrower+"/loan", l.LenderID, middleware.RoleLender, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, created.LoanID, decode[struct {
		LoanID string `json:"loan_id"`
	}](t, rec).LoanID)
	rec = a.do(t, stdhttp.MethodGet, "/offers/"+o.OfferID+"/borrowers/"+id.NewID32()+"/loan", l.LenderID, middleware.RoleLender, nil)
	require.Equal(t, stdhttp.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[errBody](t, rec).Kind)

	rec = a.do(t, stdhttp.MethodPost, "/loans", borrower, middleware.RoleBorrower, map[string]any{
		"offer_id": o.OfferID, "borrower_id": borrower, "start_date": "01/02/2026", "end_date": "2026-08-01",
	})
	require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	assert.True(t, containsFieldMsg(decode[ErrorResponse](t, rec).Details, "StartDate", "2006-01-02"))
}

func TestPaymentRoutes(t *testing.T) {
	a := newAPI(t)
	l := sqlitedb.SeedLender(t, a.db, 0)
	o := sqlitedb.SeedOffer(t, a.db, l.LenderID, 1000, 12, 100)
	borrower := id.NewID32()
	ln := sqlitedb.SeedLoan(t, a.db, o.OfferID, borrower)
	path := "/loans/" + ln.LoanID + "/payments"

	pay := func(sub string, amount string) *httptest.ResponseRecorder {
		return a.do(t, stdhttp.MethodPost, path, sub, middleware.RoleBorrower, map[string]any{
			"amount": amount, "method_id": 1, "receipt_ref": "TRX-1", "paid_at": "2026-03-01",
		})
	}

	rec := pay(id.NewID32(), "100")
	require.Equal(t, stdhttp.StatusForbidden, rec.Code)

	rec = pay(borrower, "1000")
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	p := decode[payment.PaymentDTO](t, rec)
	assert.True(t, p.Balance.Equal(decimal.NewFromInt(200)))

	rec = pay(borrower, "300")
	require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	er := decode[errBody](t, rec)
	assert.Equal(t, "overpayment", er.Kind)
	assert.True(t, er.Balance.Equal(decimal.NewFromInt(200)))
	assert.True(t, er.Attempted.Equal(decimal.NewFromInt(300)))

	rec = pay(borrower, "200")
	require.Equal(t, stdhttp.StatusCreated, rec.Code)
	rec = pay(borrower, "1")
	require.Equal(t, stdhttp.StatusConflict, rec.Code)

	rec = a.do(t, stdhttp.MethodGet, path, borrower, middleware.RoleBorrower, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	list := decode[payment.LoanPaymentsDTO](t, rec)
	assert.True(t, list.FullyPaid)
	assert.Len(t, list.Payments, 2)

	rec = a.do(t, stdhttp.MethodGet, "/offers/"+o.OfferID+"/payments", l.LenderID, middleware.RoleLender, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	rec = a.do(t, stdhttp.MethodGet, "/borrowers/"+borrower+"/payments", borrower, middleware.RoleBorrower, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	// only admins edit payments
	upd := map[string]any{"amount": "150", "method_id": 1, "receipt_ref": "TRX-FIX"}
	rec = a.do(t, stdhttp.MethodPut, "/payments/"+p.PaymentID, borrower, middleware.RoleBorrower, upd)
	require.Equal(t, stdhttp.StatusForbidden, rec.Code)
	rec = a.do(t, stdhttp.MethodPut, "/payments/"+p.PaymentID, id.NewID32(), middleware.RoleAdmin, upd)
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, stdhttp.MethodPost, "/loans/"+id.NewID32()+"/payments", borrower, middleware.RoleBorrower, map[string]any{
		"amount": "10", "method_id": 1, "receipt_ref": "x",
	})
	require.Equal(t, stdhttp.StatusNotFound, rec.Code)
}

func TestRequestRoutes(t *testing.T) {
	a := newAPI(t)
	l := sqlitedb.SeedLender(t, a.db, 5000)
	o := sqlitedb.SeedOffer(t, a.db, l.LenderID, 1000, 12, 100)
	borrower := id.NewID32()
	submit := map[string]any{"borrower_id": borrower, "requested_amount": "1000", "comment": "stock"}

	rec := a.do(t, stdhttp.MethodPost, "/offers/"+o.OfferID+"/requests", borrower, middleware.RoleBorrower, submit)
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	req := decode[struct {
		RequestID string `json:"request_id"`
		Comment   string `json:"comment"`
	}](t, rec)
	assert.Equal(t, "stock | Contact unavailable", req.Comment)

	rec = a.do(t, stdhttp.MethodPost, "/offers/"+o.OfferID+"/requests", borrower, middleware.RoleBorrower, submit)
	require.Equal(t, stdhttp.StatusConflict, rec.Code)

	rec = a.do(t, stdhttp.MethodGet, "/offers/"+o.OfferID+"/requests/"+borrower+"/active", borrower, middleware.RoleBorrower, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.True(t, decode[loanrequest.ActiveApplication](t, rec).Applied)

	// another lender cannot see or decide
	other := id.NewID32()
	rec = a.do(t, stdhttp.MethodGet, "/offers/"+o.OfferID+"/requests", other, middleware.RoleLender, nil)
	require.Equal(t, stdhttp.StatusForbidden, rec.Code)
	rec = a.do(t, stdhttp.MethodPost, "/requests/"+req.RequestID+"/accept", other, middleware.RoleLender, nil)
	require.Equal(t, stdhttp.StatusForbidden, rec.Code)

	rec = a.do(t, stdhttp.MethodGet, "/offers/"+o.OfferID+"/requests", l.LenderID, middleware.RoleLender, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)
	rec = a.do(t, stdhttp.MethodGet, "/lenders/"+l.LenderID+"/requests", l.LenderID, middleware.RoleLender, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	rec = a.do(t, stdhttp.MethodPost, "/requests/"+req.RequestID+"/accept", l.LenderID, middleware.RoleLender, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	res := decode[struct {
		Request struct {
			Status string `json:"status"`
		} `json:"request"`
		Loan origination.LoanDTO `json:"loan"`
	}](t, rec)
	assert.Equal(t, "accepted", res.Request.Status)
	assert.Equal(t, borrower, res.Loan.BorrowerID)
	assert.True(t, sqlitedb.Capital(t, a.db, l.LenderID).Equal(decimal.NewFromInt(4000)))

	rec = a.do(t, stdhttp.MethodPost, "/requests/"+req.RequestID+"/reject", l.LenderID, middleware.RoleLender, nil)
	require.Equal(t, stdhttp.StatusConflict, rec.Code)

	rec = a.do(t, stdhttp.MethodPost, "/requests/"+id.NewID32()+"/accept", l.LenderID, middleware.RoleLender, nil)
	require.Equal(t, stdhttp.StatusNotFound, rec.Code)
}

func TestIdempotentReplay_CreditsOnce(t *testing.T) {
	a := newAPI(t)
	l := sqlitedb.SeedLender(t, a.db, 100)
	reqID := id.NewID32()
	path := "/lenders/" + l.LenderID + "/deposits"
	body := map[string]any{"amount": "50"}

	first := a.send(t, stdhttp.MethodPost, path, l.LenderID, middleware.RoleLender, reqID, body)
	require.Equal(t, stdhttp.StatusOK, first.Code, first.Body.String())
	second := a.send(t, stdhttp.MethodPost, path, l.LenderID, middleware.RoleLender, reqID, body)
	require.Equal(t, stdhttp.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())

	assert.True(t, sqlitedb.Capital(t, a.db, l.LenderID).Equal(decimal.NewFromInt(150)))
}

func TestBadBody(t *testing.T) {
	a := newAPI(t)
	me := id.NewID32()
	req := httptest.NewRequest(stdhttp.MethodPost, "/lenders", bytes.NewReader([]byte(`{"lender_id":`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, me, middleware.RoleLender))
	req.Header.Set("Ax-Request-Id", id.NewID32())
	req.Header.Set("Ax-Request-At", time.Now().UTC().Format(time.RFC3339))
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid body", decode[ErrorResponse](t, rec).Error)
}
