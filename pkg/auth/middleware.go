package auth

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	apierr "github.com/v6census/v6census/pkg/api/types/errors"
)

const claimsContextKey = "v6census/adminClaims"

// Bearer returns an echo middleware rejecting requests unless their
// Authorization header carries a valid admin token.
//
// Handlers behind it can read the verified claims back with ClaimsFrom.
func Bearer(signKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return apierr.Unauthorized(
					`admin token is required as "Authorization: Bearer" header`, nil,
				)
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" {
				return apierr.Unauthorized(
					`admin token is required as "Authorization: Bearer" header`, nil,
				)
			}

			claims, err := VerifyAdminToken(signKey, token)
			if err != nil {
				if errors.Is(err, ErrInvalidToken) {
					return apierr.Unauthorized("invalid token", err)
				}
				return apierr.InternalServerError(err)
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims the Bearer middleware verified for
// this request, if it ran.
func ClaimsFrom(c echo.Context) (*AdminClaims, bool) {
	claims, ok := c.Get(claimsContextKey).(*AdminClaims)
	return claims, ok
}
