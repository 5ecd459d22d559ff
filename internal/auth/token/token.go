// Package token issues and verifies the access tokens the HTTP surface
// hands to the UI after login or signup.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
}

func Generate(accountID string, secret []byte, ttl time.Duration) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   accountID,
		},
		AccountID: accountID,
	})
	return t.SignedString(secret)
}

// AccountID extracts the account id from a signed token, rejecting
// expired or tampered tokens.
func AccountID(tokenString string, secret []byte) (string, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}
	if !t.Valid || claims.AccountID == "" {
		return "", ErrInvalidToken
	}
	return claims.AccountID, nil
}
