package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles known to the API
const (
	RoleCustomer = "Customer"
	RolePartner  = "Partner"
	RoleAdmin    = "Admin"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims JWT claims carried by API tokens. StoreID is set only for
// partner tokens and scopes them to their store.
type Claims struct {
	CustomerID uint64 `json:"customer_id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	StoreID    uint64 `json:"store_id,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager issues and validates API tokens
type JWTManager struct {
	secret []byte
	expire time.Duration
	issuer string
}

// NewJWTManager create JWT manager
func NewJWTManager(secret string, expire time.Duration, issuer string) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		expire: expire,
		issuer: issuer,
	}
}

// GenerateToken generate a signed token for a user
func (m *JWTManager) GenerateToken(customerID uint64, username, role string) (string, error) {
	return m.generate(customerID, username, role, 0)
}

// GeneratePartnerToken generate a signed token bound to a store
func (m *JWTManager) GeneratePartnerToken(userID uint64, username string, storeID uint64) (string, error) {
	return m.generate(userID, username, RolePartner, storeID)
}

func (m *JWTManager) generate(customerID uint64, username, role string, storeID uint64) (string, error) {
	now := time.Now()
	claims := Claims{
		CustomerID: customerID,
		Username:   username,
		Role:       role,
		StoreID:    storeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expire)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken validate a token and return its claims
func (m *JWTManager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
