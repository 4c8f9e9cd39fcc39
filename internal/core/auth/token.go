package auth

import (
	"fmt"
	"time"

	"chirp/internal/core/errs"

	"github.com/dgrijalva/jwt-go"
)

const (
	Issuer     = "chirp"
	DefaultTTL = 24 * time.Hour
)

// TokenIssuer signs and verifies HS256 bearer tokens whose subject is a user ID.
type TokenIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokenIssuer(key []byte, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenIssuer{key: key, ttl: ttl, now: time.Now}
}

// Issue returns a signed token for userID and the moment it expires.
func (t *TokenIssuer) Issue(userID string) (string, time.Time, error) {
	issuedAt := t.now()
	expiresAt := issuedAt.Add(t.ttl)

	claims := &jwt.StandardClaims{
		Subject:   userID,
		Issuer:    Issuer,
		IssuedAt:  issuedAt.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature, issuer and expiry and returns the user ID.
// Every failure is reported as errs.ErrInvalidToken.
func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.key, nil
	})
	if err != nil || !token.Valid {
		return "", errs.New(errs.ErrInvalidToken, "invalid token")
	}
	if !claims.VerifyIssuer(Issuer, true) || claims.Subject == "" {
		return "", errs.New(errs.ErrInvalidToken, "invalid token")
	}
	return claims.Subject, nil
}
