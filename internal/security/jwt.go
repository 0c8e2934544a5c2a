package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const issuer = "coworking-reservation"

// Claims represents JWT claims
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the subject as an ObjectID
func (c *Claims) UserID() (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Subject)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid user ID in token: %w", err)
	}
	return id, nil
}

// JWTManager handles JWT token operations
type JWTManager struct {
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, tokenTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// GenerateToken signs an access token for the user
func (m *JWTManager) GenerateToken(userID primitive.ObjectID, role string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.tokenTTL)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken validates a token and returns the claims
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// TokenTTL returns the token lifetime
func (m *JWTManager) TokenTTL() time.Duration {
	return m.tokenTTL
}
