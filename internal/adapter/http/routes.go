package http

import (
	"p2p-lending-backend/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health   *Handler
	Lenders  *LenderHandler
	Offers   *OfferHandler
	Loans    *LoanHandler
	Payments *PaymentHandler
	Requests *RequestHandler
}

// Register mounts every route. auth runs on everything but /health; idemp
// wraps the mutating routes and must come after auth.
func Register(e *echo.Echo, h Handlers, auth, idemp echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	g := e.Group("", auth)

	lenderOnly := middleware.RequireRole(middleware.RoleLender, middleware.RoleAdmin)
	borrowerOnly := middleware.RequireRole(middleware.RoleBorrower, middleware.RoleAdmin)
	adminOnly := middleware.RequireRole(middleware.RoleAdmin)

	// lenders
	g.POST("/lenders", h.Lenders.Create, lenderOnly, idemp)
	g.PUT("/lenders/:lender_id", h.Lenders.Save, lenderOnly, idemp)
	g.GET("/lenders/:lender_id", h.Lenders.Get)
	g.POST("/lenders/:lender_id/deposits", h.Lenders.Deposit, lenderOnly, idemp)
	g.POST("/lenders/:lender_id/tier", h.Lenders.RecomputeTier, lenderOnly, idemp)
	g.GET("/lenders/:lender_id/loans", h.Loans.ByLender)
	g.GET("/lenders/:lender_id/offers", h.Offers.ByLender)
	g.GET("/lenders/:lender_id/requests", h.Requests.ByLender, lenderOnly)

	// offers
	g.POST("/offers", h.Offers.Publish, lenderOnly, idemp)
	g.GET("/offers/:offer_id", h.Offers.Get)
	g.GET("/offers/:offer_id/payments", h.Offers.Payments)
	g.POST("/offers/:offer_id/requests", h.Requests.Submit, borrowerOnly, idemp)
	g.GET("/offers/:offer_id/requests", h.Offers.Requests, lenderOnly)
	g.GET("/offers/:offer_id/requests/:borrower_id/active", h.Requests.HasActive)
	g.GET("/offers/:offer_id/borrowers/:borrower_id/loan", h.Loans.ByOfferAndBorrower)

	// loans & payments
	g.POST("/loans", h.Loans.Originate, borrowerOnly, idemp)
	g.GET("/loans/:loan_id", h.Loans.Get)
	g.GET("/loans/:loan_id/payments", h.Payments.ByLoan)
	g.POST("/loans/:loan_id/payments", h.Payments.Record, borrowerOnly, idemp)
	g.PUT("/payments/:payment_id", h.Payments.Update, adminOnly, idemp)
	g.GET("/borrowers/:borrower_id/loans", h.Loans.ByBorrower)
	g.GET("/borrowers/:borrower_id/payments", h.Payments.ByBorrower)

	// requests
	g.POST("/requests/:request_id/accept", h.Requests.Accept, lenderOnly, idemp)
	g.POST("/requests/:request_id/reject", h.Requests.Reject, lenderOnly, idemp)
}
