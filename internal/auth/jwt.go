// Package auth signs and verifies the HS256 service tokens internal
// callers (ops tooling, game servers, test harnesses) present to the
// private API.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ScopeInternal is the only scope the private API accepts.
const ScopeInternal = "internal"

type Claims struct {
	Service string `json:"svc"`
	Scope   string `json:"scope"`
	jwt.RegisteredClaims
}

var ErrWrongScope = errors.New("token lacks internal scope")

// Sign issues a service token for the named caller.
func Sign(secret []byte, service string, ttl time.Duration) (string, error) {
	claims := Claims{
		Service: service,
		Scope:   ScopeInternal,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// Verify parses the token and checks it carries the internal scope.
func Verify(secret []byte, token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Scope != ScopeInternal {
		return nil, ErrWrongScope
	}
	return claims, nil
}
