package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("longpass1")
	require.NoError(t, err)
	assert.NotEqual(t, "longpass1", hash)

	assert.True(t, h.Verify("longpass1", hash))
	assert.False(t, h.Verify("longpass2", hash))
}

func TestHasher_SaltedHashesDiffer(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	a, err := h.Hash("samepassword1")
	require.NoError(t, err)
	b, err := h.Hash("samepassword1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("samepassword1", a))
	assert.True(t, h.Verify("samepassword1", b))
}

func TestHasher_UsesConfiguredCost(t *testing.T) {
	h := NewHasher(DefaultBcryptCost)
	hash, err := h.Hash("longpass1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 8, cost)
}

func TestNewHasher_OutOfRangeCost(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewHasher(0).Cost())
	assert.Equal(t, DefaultBcryptCost, NewHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, 12, NewHasher(12).Cost())
}

func TestHasher_VerifyMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	assert.False(t, h.Verify("longpass1", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("longpass1", ""))
}
