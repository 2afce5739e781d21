package middleware

import (
	"errors"
	"net/http"
	"strings"

	"p2p-lending-backend/pkg/id"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	RoleLender   = "lender"
	RoleBorrower = "borrower"
	RoleAdmin    = "admin"

	principalKey = "auth.principal"
)

// Claims is what the auth service puts in the bearer token. The subject is
// the caller's 32-char hex user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Principal struct {
	Subject string
	Role    string
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// PrincipalFrom returns the caller set by JWTAuth.
func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}

func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set("WWW-Authenticate", `Bearer realm="lending"`)
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": msg})
}

// JWTAuth verifies HS256 bearer tokens. Tokens are issued elsewhere; this
// service only checks them.
func JWTAuth(secret []byte) echo.MiddlewareFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (any, error) { return secret, nil }

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, found := strings.Cut(raw, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return unauthorized(c, "missing bearer token")
			}

			var claims Claims
			if _, err := parser.ParseWithClaims(strings.TrimSpace(token), &claims, keyFunc); err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					return unauthorized(c, "token expired")
				}
				return unauthorized(c, "invalid token")
			}
			sub, _ := claims.GetSubject()
			if !id.Valid(sub) {
				return unauthorized(c, "invalid token subject")
			}
			switch claims.Role {
			case RoleLender, RoleBorrower, RoleAdmin:
			default:
				return unauthorized(c, "invalid token role")
			}

			c.Set(principalKey, Principal{Subject: sub, Role: claims.Role})
			return next(c)
		}
	}
}

// RequireRole lets through callers holding one of roles. Must run after JWTAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return unauthorized(c, "unauthenticated")
			}
			if _, ok := allowed[p.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "role not allowed"})
			}
			return next(c)
		}
	}
}
