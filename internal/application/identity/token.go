package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/identity"
	"github.com/learn2pay/backend/internal/domain/shared"
)

// Claims is the JWT payload issued on login. InstituteID scopes every
// subsequent request to the caller's tenant.
type Claims struct {
	jwt.RegisteredClaims
	UserID      uuid.UUID     `json:"user_id"`
	InstituteID uuid.UUID     `json:"institute_id"`
	Email       string        `json:"email"`
	Role        identity.Role `json:"role"`
}

// TokenIssuer signs and parses login tokens
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
}

// NewTokenIssuer creates a TokenIssuer
func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Issue signs a token for an authenticated user
func (t *TokenIssuer) Issue(user *identity.InstituteUser) (string, time.Time, error) {
	expiresAt := time.Now().Add(t.expiry)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:      user.ID,
		InstituteID: user.InstituteID,
		Email:       user.Email,
		Role:        user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// Parse validates a token string and returns its claims
func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, shared.ErrUnauthorized
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, shared.ErrUnauthorized
	}

	return claims, nil
}
