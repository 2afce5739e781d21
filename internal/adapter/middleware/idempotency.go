package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// How long a reservation lives if the handler never records a response.
	provisionalLockTTL = 60 * time.Second
	// Allowed client/server clock skew for Ax-Request-At (in UTC).
	maxClockSkew = 10 * time.Minute
	storeTimeout = 2 * time.Second
)

// capture tees the response so it can be recorded for replay.
type capture struct {
	http.ResponseWriter
	buf  bytes.Buffer
	code int
}

func (r *capture) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *capture) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func jsonErr(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

// IdempotencyMiddleware makes mutating requests safe to retry. Each request
// carries Ax-Request-Id (UUID or 32-hex) and Ax-Request-At (epoch s/ms or
// RFC3339 with zone, within maxClockSkew). The first request with a given
// (method, route, caller, request id) runs; repeats with the same body get
// the recorded response, repeats with a different body or while the first is
// still running get 409. Must run after JWTAuth.
func IdempotencyMiddleware(rdb *redis.Client, ttl time.Duration, log logrus.FieldLogger) echo.MiddlewareFunc {
	store := replayStore{rdb: rdb, ttl: ttl}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			reqID := strings.TrimSpace(req.Header.Get("Ax-Request-Id"))
			if reqID == "" {
				return jsonErr(c, http.StatusBadRequest, "missing Ax-Request-Id")
			}
			if !validReqID(reqID) {
				return jsonErr(c, http.StatusBadRequest, "invalid Ax-Request-Id format")
			}
			reqAt, err := parseAxRequestAt(req.Header.Get("Ax-Request-At"))
			if err != nil {
				return jsonErr(c, http.StatusBadRequest, err.Error())
			}
			if !withinSkew(reqAt, nowUTC()) {
				return jsonErr(c, http.StatusBadRequest, "Ax-Request-At too skewed")
			}
			caller, ok := PrincipalFrom(c)
			if !ok {
				return jsonErr(c, http.StatusUnauthorized, "unauthenticated")
			}

			var body []byte
			if req.Body != nil {
				if body, err = io.ReadAll(req.Body); err != nil {
					return jsonErr(c, http.StatusBadRequest, "unreadable body")
				}
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			key := replayKey(req.Method, c.Path(), caller.Subject, reqID)
			entry := replayEntry{
				InProgress:  true,
				BodySHA256:  bodyHash(body),
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}
			klog := log.WithFields(logrus.Fields{"key": key, "subject": caller.Subject})

			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()
			reserved, err := store.reserve(ctx, key, entry)
			if err != nil {
				klog.WithError(err).Error("idempotency: store unavailable")
				return jsonErr(c, http.StatusServiceUnavailable, "idempotency store unavailable")
			}
			if !reserved {
				prev, err := store.load(ctx, key)
				if err != nil && !errors.Is(err, errNoEntry) {
					klog.WithError(err).Warn("idempotency: load entry failed")
				}
				switch {
				case prev.BodySHA256 != "" && prev.BodySHA256 != entry.BodySHA256:
					return jsonErr(c, http.StatusConflict, "Ax-Request-Id reused with different body")
				case prev.replayable():
					klog.Debug("idempotency: replaying recorded response")
					return c.Blob(prev.Code, echo.MIMEApplicationJSON, prev.Body)
				}
				return jsonErr(c, http.StatusConflict, "request is already in progress")
			}

			rec := &capture{ResponseWriter: c.Response().Writer, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may already be gone
			if rec.code >= http.StatusInternalServerError {
				// server faults are retryable: let the same request id run again
				if err := store.release(context.Background(), key); err != nil {
					klog.WithError(err).Warn("idempotency: releasing reservation failed")
				}
				return nil
			}
			entry.InProgress = false
			entry.Code = rec.code
			entry.Body = rec.buf.Bytes()
			entry.CreatedAt = nowUTC()
			if err := store.record(context.Background(), key, entry); err != nil {
				klog.WithError(err).Warn("idempotency: recording response failed")
			}
			return nil
		}
	}
}
