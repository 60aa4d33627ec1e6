package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	salt, err := RandBytes(16)
	require.NoError(t, err)

	h := HashPassword([]byte("s3cret"), salt)
	require.NotEmpty(t, h)

	require.True(t, VerifyPassword([]byte("s3cret"), salt, h))
	require.False(t, VerifyPassword([]byte("wrong"), salt, h))

	otherSalt, err := RandBytes(16)
	require.NoError(t, err)
	require.False(t, VerifyPassword([]byte("s3cret"), otherSalt, h))
}

func TestRandBytesLength(t *testing.T) {
	b, err := RandBytes(32)
	require.NoError(t, err)
	require.Len(t, b, 32)
}

func TestNewLicenseKey(t *testing.T) {
	k1, err := NewLicenseKey()
	require.NoError(t, err)
	require.Len(t, k1, 32)
	require.Regexp(t, `^[0-9a-f]{32}$`, k1)

	k2, err := NewLicenseKey()
	require.NoError(t, err)
	require.NotEqual(t, k1, k2)
}
