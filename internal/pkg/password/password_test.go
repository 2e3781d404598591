//go:build unit

package password_test

import (
	"testing"

	"salonbook/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := password.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	t.Run("right password verifies", func(t *testing.T) {
		assert.NoError(t, password.Verify(hash, "correct horse battery staple"))
	})

	t.Run("wrong password is a mismatch", func(t *testing.T) {
		assert.ErrorIs(t, password.Verify(hash, "tr0ub4dor&3"), password.ErrMismatch)
	})

	t.Run("malformed hash is not a mismatch", func(t *testing.T) {
		err := password.Verify("not-a-bcrypt-hash", "anything")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, password.ErrMismatch)
	})

	t.Run("empty inputs rejected", func(t *testing.T) {
		_, err := password.Hash("")
		assert.ErrorIs(t, err, password.ErrEmpty)
		assert.ErrorIs(t, password.Verify(hash, ""), password.ErrEmpty)
		assert.ErrorIs(t, password.Verify("", "x"), password.ErrEmpty)
	})
}
