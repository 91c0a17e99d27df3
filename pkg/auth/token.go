package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	jwt "github.com/golang-jwt/jwt/v5"
)

// Issuer is the "iss" claim of every token minted by this package.
const Issuer = "v6census"

var ErrInvalidToken error = errors.New("invalid token")

// AdminClaims is the claim set of tokens granting access to the
// admin endpoints of censusd.
type AdminClaims struct {
	jwt.RegisteredClaims
}

// NewAdminToken signs a new admin token and returns it as a JWS
// (JSON Web Signature) token string.
//
// # Args
//
// - signKey: shared secret to sign with (HS256)
//
// - lifetime: how long the token stays valid, counted from now
//
// - now: issue time
//
// # Returns
//
// - string: JWT token string
//
// - error: from [jwt.Token.SignedString]
func NewAdminToken(signKey string, lifetime time.Duration, now time.Time) (string, error) {
	tok := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		AdminClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				// jti
				ID: uuid.NewString(),

				Issuer:    Issuer,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			},
		},
	)
	return tok.SignedString([]byte(signKey))
}

// VerifyAdminToken verifies a token from NewAdminToken and returns its claims.
//
// # Args
//
// - signKey: shared secret the token should be signed with
//
// - token: JWT token string
//
// # Returns
//
// - *AdminClaims: claims of the verified token
//
// - error: [ErrInvalidToken] when the token is malformed, signed with
// another key or algorithm, expired or issued by someone else,
// or any other errors from [jwt.ParseWithClaims]
func VerifyAdminToken(signKey string, token string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
			}
			return []byte(signKey), nil
		},
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, errors.Join(ErrInvalidToken, err)
		}
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, errors.Join(ErrInvalidToken, err)
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Join(ErrInvalidToken, err)
		}
		if errors.Is(err, jwt.ErrTokenUnverifiable) {
			return nil, errors.Join(ErrInvalidToken, err)
		}
		if errors.Is(err, jwt.ErrTokenInvalidClaims) {
			return nil, errors.Join(ErrInvalidToken, err)
		}
		return nil, err
	}
	return claims, nil
}
