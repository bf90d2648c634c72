package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims of a bearer token: sub is the principal id
type TokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for p valid for ttl
func IssueToken(secret string, p *Principal, ttl time.Duration) (string, time.Time, error) {
	issuedAt := time.Now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(ttl)
	claims := TokenClaims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken verifies signature, algorithm and expiry and returns the claims
func ParseToken(secret, tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, UnauthorizedError("invalid or expired token")
	}
	if claims.Subject == "" || !IsValidRole(claims.Role) {
		return nil, UnauthorizedError("invalid token claims")
	}
	return claims, nil
}
