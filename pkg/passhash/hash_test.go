package passhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPasswordWithCost("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	ok, err := VerifyPassword("hunter22", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("hunter23", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHash_Salted(t *testing.T) {
	a, err := HashPasswordWithCost("same", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPasswordWithCost("same", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerify_MalformedHash(t *testing.T) {
	_, err := VerifyPassword("x", "not-a-hash")
	assert.Error(t, err)
}
