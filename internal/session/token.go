// Package session owns the signed-in state of the client: parsing the
// backend's access token, keeping tokens in the OS keyring between runs, and
// the sign-in / sign-out flow.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/housersapp/housers/internal/common"
)

// now is a seam for token time checks.
var now = time.Now

// Claims are the access-token claims the client reads.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// ParseToken validates token and returns its claims. With an empty secret the
// signature is not checked (the client normally does not hold the signing
// key); the time-based claims are checked either way.
func ParseToken(token string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	var err error
	if len(secret) == 0 {
		_, _, err = jwt.NewParser().ParseUnverified(token, claims)
		if err == nil {
			err = jwt.NewValidator(jwt.WithTimeFunc(now), jwt.WithExpirationRequired()).Validate(claims)
		}
	} else {
		_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(now), jwt.WithExpirationRequired())
	}
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUnauthorized, err)
	}
	return claims, nil
}

// UserIDFromToken returns the token subject, which must be a UUID.
func UserIDFromToken(token string, secret []byte) (string, error) {
	claims, err := ParseToken(token, secret)
	if err != nil {
		return "", err
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", fmt.Errorf("%w: subject is not a user id", common.ErrUnauthorized)
	}
	return id.String(), nil
}
