package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndParse(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, "fooddelivery-api")

	token, err := m.GenerateToken(42, "alice", RoleCustomer)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.CustomerID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, RoleCustomer, claims.Role)
	assert.Equal(t, "fooddelivery-api", claims.Issuer)
}

func TestJWTManager_PartnerTokenCarriesStore(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, "fooddelivery-api")

	token, err := m.GeneratePartnerToken(9, "bistro", 3)
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, RolePartner, claims.Role)
	assert.Equal(t, uint64(3), claims.StoreID)

	// customer tokens stay unscoped
	token, err = m.GenerateToken(42, "alice", RoleCustomer)
	require.NoError(t, err)
	claims, err = m.ParseToken(token)
	require.NoError(t, err)
	assert.Zero(t, claims.StoreID)
}

func TestJWTManager_ParseInvalid(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, "fooddelivery-api")

	_, err := m.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_ParseExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute, "fooddelivery-api")

	token, err := m.GenerateToken(42, "alice", RoleCustomer)
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	m1 := NewJWTManager("secret-one", time.Hour, "fooddelivery-api")
	m2 := NewJWTManager("secret-two", time.Hour, "fooddelivery-api")

	token, err := m1.GenerateToken(42, "alice", RoleCustomer)
	require.NoError(t, err)

	_, err = m2.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
