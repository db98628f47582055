package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalid = errors.New("invalid token")

// Claims identify the signed-in user. Subject holds the user id.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
	Role string `json:"role"`
}

// Issue signs an HS256 token valid for ttl.
func Issue(secret string, userID, name, role string, ttl time.Duration, now time.Time) (string, error) {
	const op = "lib.token.Issue"

	if secret == "" {
		return "", fmt.Errorf("%s: empty secret", op)
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name: name,
		Role: role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// Parse verifies raw and returns its claims. Any failure wraps ErrInvalid.
func Parse(secret, raw string) (*Claims, error) {
	const op = "lib.token.Parse"

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalid, err)
	}
	if !tok.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalid)
	}

	return claims, nil
}
