// Package app wires configuration, storage, usecases and the HTTP server.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	httpadp "p2p-lending-backend/internal/adapter/http"
	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/adapter/repository/mysql"
	"p2p-lending-backend/internal/adapter/scheduler"
	"p2p-lending-backend/internal/config"
	"p2p-lending-backend/internal/infrastructure/cache"
	"p2p-lending-backend/internal/infrastructure/db"
	"p2p-lending-backend/internal/usecase/lender"
	"p2p-lending-backend/internal/usecase/loan"
	"p2p-lending-backend/internal/usecase/loanrequest"
	"p2p-lending-backend/internal/usecase/offer"
	"p2p-lending-backend/internal/usecase/origination"
	"p2p-lending-backend/internal/usecase/payment"
	"p2p-lending-backend/internal/usecase/rank"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 15 * time.Second
	sweepTimeout    = 10 * time.Minute
)

type App struct {
	cfg   *config.Config
	log   *logrus.Logger
	db    *gorm.DB
	redis *redis.Client

	Echo   *echo.Echo
	Ranker *rank.Usecase
	// nil when RANK_CRON_SPEC is empty
	Sweep *scheduler.TierSweep
}

// Open connects MySQL and Redis and wires everything on top of them.
func Open(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	gdb, err := db.OpenGorm(cfg.MySQLDSN(), log)
	if err != nil {
		return nil, err
	}
	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		closeDB(gdb)
		return nil, err
	}
	a, err := Wire(cfg, log, gdb, rdb)
	if err != nil {
		closeDB(gdb)
		_ = rdb.Close()
		return nil, err
	}
	return a, nil
}

// Wire builds the app on already opened connections.
func Wire(cfg *config.Config, log *logrus.Logger, gdb *gorm.DB, rdb *redis.Client) (*App, error) {
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
	requestUC := loanrequest.NewUsecase(tx, requests, offers, mysql.NewUserDirectory(gdb), originator, cfg.LoanTermMonths, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Recover(), requestLogger(log))

	httpadp.Register(e, httpadp.Handlers{
		Health:   httpadp.NewHandler(healthChecks(gdb, rdb)...),
		Lenders:  httpadp.NewLenderHandler(lenderUC, ranker, log),
		Offers:   httpadp.NewOfferHandler(offerUC, requestUC, paymentUC, log),
		Loans:    httpadp.NewLoanHandler(loanUC, originator, log),
		Payments: httpadp.NewPaymentHandler(paymentUC, loanUC, log),
		Requests: httpadp.NewRequestHandler(requestUC, offerUC, log),
	},
		middleware.JWTAuth([]byte(cfg.JWTSecret)),
		middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log),
	)

	a := &App{cfg: cfg, log: log, db: gdb, redis: rdb, Echo: e, Ranker: ranker}
	if cfg.RankCronSpec != "" {
		sweep, err := scheduler.NewTierSweep(cfg.RankCronSpec, ranker, sweepTimeout, log)
		if err != nil {
			return nil, err
		}
		a.Sweep = sweep
	}
	return a, nil
}

func healthChecks(gdb *gorm.DB, rdb *redis.Client) []httpadp.Check {
	return []httpadp.Check{
		{Name: "mysql", Probe: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}},
		{Name: "redis", Probe: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	}
}

func requestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	})
}

// Run serves HTTP and the tier sweep until ctx is cancelled, then shuts both
// down gracefully.
func (a *App) Run(ctx context.Context) error {
	if a.Sweep != nil {
		a.Sweep.Start()
		a.log.WithField("next", a.Sweep.Next()).Info("tier sweep scheduled")
	}

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + a.cfg.AppPort
		a.log.WithField("addr", addr).Info("listening")
		if err := a.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(sctx); err != nil {
		a.log.WithError(err).Warn("http shutdown")
	}
	if a.Sweep != nil {
		if err := a.Sweep.Stop(sctx); err != nil {
			a.log.WithError(err).Warn("tier sweep did not stop in time")
		}
	}
	return runErr
}

func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	closeDB(a.db)
}

func closeDB(gdb *gorm.DB) {
	if gdb == nil {
		return
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
