package security

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *PasswordHasher {
	t.Helper()

	h, err := NewPasswordHasher(bcrypt.MinCost, 4)
	require.NoError(t, err)
	return h
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := newTestHasher(t)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "Passw0rd")
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	assert.True(t, h.Verify(ctx, "Passw0rd", hash))
	assert.False(t, h.Verify(ctx, "passw0rd", hash))
	assert.False(t, h.Verify(ctx, "", hash))
}

func TestPasswordHasher_SaltedHashesDiffer(t *testing.T) {
	h := newTestHasher(t)
	ctx := context.Background()

	a, err := h.Hash(ctx, "Passw0rd")
	require.NoError(t, err)
	b, err := h.Hash(ctx, "Passw0rd")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestPasswordHasher_MalformedHashIsFalse(t *testing.T) {
	h := newTestHasher(t)
	ctx := context.Background()

	for _, hash := range []string{"", "not-a-hash", "$2a$04$short", "$argon2id$v=19$..."} {
		assert.NotPanics(t, func() {
			assert.False(t, h.Verify(ctx, "Passw0rd", hash), hash)
		})
	}
}

func TestPasswordHasher_LongPasswords(t *testing.T) {
	h := newTestHasher(t)
	ctx := context.Background()

	// passwords sharing the first 72 bytes must not collide
	prefix := strings.Repeat("a1", 40)
	long1 := prefix + "X"
	long2 := prefix + "Y"

	hash, err := h.Hash(ctx, long1)
	require.NoError(t, err)

	assert.True(t, h.Verify(ctx, long1, hash))
	assert.False(t, h.Verify(ctx, long2, hash))
}

func TestPasswordHasher_CancelledContext(t *testing.T) {
	h := newTestHasher(t)

	hash, err := h.Hash(context.Background(), "Passw0rd")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// hold every slot so Acquire has to observe the cancelled context
	require.NoError(t, h.sem.Acquire(context.Background(), 4))
	defer h.sem.Release(4)

	assert.False(t, h.Verify(ctx, "Passw0rd", hash))
	_, err = h.Hash(ctx, "Passw0rd")
	assert.Error(t, err)
}

func TestPasswordHasher_Decoy(t *testing.T) {
	h := newTestHasher(t)

	cost, err := bcrypt.Cost(h.decoy)
	require.NoError(t, err)
	assert.Equal(t, h.Cost(), cost)

	assert.NotPanics(t, func() {
		h.VerifyDecoy(context.Background(), "Passw0rd")
	})
}

func TestPasswordHasher_NeedsRehash(t *testing.T) {
	h := newTestHasher(t)

	old, err := bcrypt.GenerateFromPassword([]byte("Passw0rd"), bcrypt.MinCost+1)
	require.NoError(t, err)

	current, err := h.Hash(context.Background(), "Passw0rd")
	require.NoError(t, err)

	assert.True(t, h.NeedsRehash(string(old)))
	assert.False(t, h.NeedsRehash(current))
	assert.False(t, h.NeedsRehash("garbage"))
}

func TestNewPasswordHasher_RejectsBadCost(t *testing.T) {
	_, err := NewPasswordHasher(bcrypt.MaxCost+1, 1)
	assert.Error(t, err)

	_, err = NewPasswordHasher(1, 1)
	assert.Error(t, err)
}

func TestPasswordHasher_Concurrent(t *testing.T) {
	h := newTestHasher(t)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "Passw0rd")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]bool, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = h.Verify(ctx, "Passw0rd", hash)
		}(i)
	}
	wg.Wait()

	for i, ok := range results {
		assert.True(t, ok, "verify %d", i)
	}
}
