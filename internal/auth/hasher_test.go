package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVerify(t *testing.T) {
	h := BcryptHasher{Cost: 4} // minimum cost keeps the test fast

	digest, err := h.Hash("secret1")
	require.NoError(t, err)
	require.NotEmpty(t, digest)

	assert.True(t, h.Verify(digest, "secret1"))
	assert.False(t, h.Verify(digest, "secret2"))
}

func TestHashSaltsIndependently(t *testing.T) {
	h := BcryptHasher{Cost: 4}

	a, err := h.Hash("secret1")
	require.NoError(t, err)
	b, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify(a, "secret1"))
	assert.True(t, h.Verify(b, "secret1"))
}

func TestVerifyMalformedDigest(t *testing.T) {
	h := BcryptHasher{}
	// a broken stored digest must read as a mismatch, not an error
	assert.False(t, h.Verify("not-a-bcrypt-digest", "secret1"))
	assert.False(t, h.Verify("", "secret1"))
}
