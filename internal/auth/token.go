package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried inside the signed session cookie.
type Claims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) Mint(userID int) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies a cookie token and extracts the user id. Any missing,
// expired, or tampered token yields (0, false); the caller treats that
// as an anonymous request, never as a server failure.
func (m *TokenManager) Parse(tokenString string) (int, bool) {
	if tokenString == "" {
		return 0, false
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid || claims.UserID <= 0 {
		return 0, false
	}
	return claims.UserID, true
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}
