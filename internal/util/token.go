package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const resetSecretBytes = 32

type Claims struct {
	UserID uuid.UUID `json:"sub"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies the two token kinds: stateless HS256
// session tokens and random password-reset secrets. The signing secret is
// loaded once at boot; rotating it invalidates every outstanding session.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) Generate(userID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ExpiresAt == nil || time.Now().After(claims.ExpiresAt.Time) {
		return nil, errors.New("token expired")
	}
	return claims, nil
}

// NewResetSecret returns a fresh plaintext reset secret and its SHA-256
// digest. The plaintext carries 32 bytes of entropy and is suffixed with the
// user id for uniqueness; only the digest is meant to be stored.
func NewResetSecret(userID uuid.UUID) (string, []byte, error) {
	buf := make([]byte, resetSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, err
	}
	plaintext := hex.EncodeToString(buf) + userID.String()
	return plaintext, HashResetSecret(plaintext), nil
}

// HashResetSecret maps a plaintext reset secret to the digest stored for it.
// The secret already has high entropy, so a fast deterministic hash is enough
// and keeps the digest usable as an equality lookup key.
func HashResetSecret(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	return sum[:]
}
