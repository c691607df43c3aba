package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/anvil/pkg/password"
)

func TestHash(t *testing.T) {
	t.Parallel()

	t.Run("hash verifies against original", func(t *testing.T) {
		t.Parallel()
		hash, err := password.Hash("s3cret-passw0rd", password.WithCost(bcrypt.MinCost))
		require.NoError(t, err)
		assert.True(t, password.Verify(hash, "s3cret-passw0rd"))
	})

	t.Run("wrong password does not verify", func(t *testing.T) {
		t.Parallel()
		hash, err := password.Hash("s3cret-passw0rd", password.WithCost(bcrypt.MinCost))
		require.NoError(t, err)
		assert.False(t, password.Verify(hash, "wrong-passw0rd"))
	})

	t.Run("same input produces different hashes", func(t *testing.T) {
		t.Parallel()
		a, err := password.Hash("s3cret-passw0rd", password.WithCost(bcrypt.MinCost))
		require.NoError(t, err)
		b, err := password.Hash("s3cret-passw0rd", password.WithCost(bcrypt.MinCost))
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("cost is embedded in the hash", func(t *testing.T) {
		t.Parallel()
		hash, err := password.Hash("s3cret-passw0rd", password.WithCost(6))
		require.NoError(t, err)

		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, 6, cost)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		t.Parallel()
		_, err := password.Hash("")
		require.ErrorIs(t, err, password.ErrEmptyPassword)
	})

	t.Run("rejects password over 72 bytes", func(t *testing.T) {
		t.Parallel()
		_, err := password.Hash(strings.Repeat("a", 73))
		require.ErrorIs(t, err, password.ErrPasswordTooLong)
	})

	t.Run("accepts password of exactly 72 bytes", func(t *testing.T) {
		t.Parallel()
		hash, err := password.Hash(strings.Repeat("a", 72), password.WithCost(bcrypt.MinCost))
		require.NoError(t, err)
		assert.True(t, password.Verify(hash, strings.Repeat("a", 72)))
	})

	t.Run("rejects cost below range", func(t *testing.T) {
		t.Parallel()
		_, err := password.Hash("s3cret-passw0rd", password.WithCost(3))
		require.ErrorIs(t, err, password.ErrInvalidCost)
	})

	t.Run("rejects cost above range", func(t *testing.T) {
		t.Parallel()
		_, err := password.Hash("s3cret-passw0rd", password.WithCost(32))
		require.ErrorIs(t, err, password.ErrInvalidCost)
	})
}

func TestVerify(t *testing.T) {
	t.Parallel()

	t.Run("malformed hash does not verify", func(t *testing.T) {
		t.Parallel()
		assert.False(t, password.Verify("not-a-bcrypt-hash", "s3cret-passw0rd"))
	})

	t.Run("empty hash does not verify", func(t *testing.T) {
		t.Parallel()
		assert.False(t, password.Verify("", "s3cret-passw0rd"))
	})
}

func TestNeedsRehash(t *testing.T) {
	t.Parallel()

	t.Run("matching cost needs no rehash", func(t *testing.T) {
		t.Parallel()
		hash, err := password.Hash("s3cret-passw0rd", password.WithCost(bcrypt.MinCost))
		require.NoError(t, err)
		assert.False(t, password.NeedsRehash(hash, password.WithCost(bcrypt.MinCost)))
	})

	t.Run("different cost needs rehash", func(t *testing.T) {
		t.Parallel()
		hash, err := password.Hash("s3cret-passw0rd", password.WithCost(bcrypt.MinCost))
		require.NoError(t, err)
		assert.True(t, password.NeedsRehash(hash))
	})

	t.Run("malformed hash needs rehash", func(t *testing.T) {
		t.Parallel()
		assert.True(t, password.NeedsRehash("garbage"))
	})
}
