package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims identifies the account a token was issued to.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"id"`
}

// TokenManager issues and verifies HS256 bearer tokens.
type TokenManager struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewTokenManager(signingKey string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		signingKey: []byte(signingKey),
		ttl:        ttl,
		now:        time.Now,
	}
}

func (m *TokenManager) Issue(accountID uuid.UUID) (string, error) {
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		AccountID: accountID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates signature and expiry and returns the account id.
func (m *TokenManager) Parse(tokenStr string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
