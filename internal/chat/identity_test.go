package chat

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryClaimTrimsAndKeepsCase(t *testing.T) {
	r := NewRegistry()

	identity, err := r.Claim("  Alice  ")
	require.NoError(t, err)
	require.Equal(t, "Alice", identity.DisplayName)
	require.NotEmpty(t, identity.ID)
	require.False(t, identity.JoinedAt.IsZero())
}

func TestRegistryClaimCaseInsensitiveCollision(t *testing.T) {
	r := NewRegistry()

	_, err := r.Claim("alice")
	require.NoError(t, err)

	_, err = r.Claim("Alice ")
	require.ErrorIs(t, err, ErrNameTaken)

	var taken *NameTakenError
	require.True(t, errors.As(err, &taken))
	require.NotEmpty(t, taken.Suggestions)
	require.LessOrEqual(t, len(taken.Suggestions), 5)
	for _, s := range taken.Suggestions {
		require.True(t, strings.HasPrefix(strings.ToLower(s), "alice"))
		_, claimed := r.Lookup(s)
		require.False(t, claimed, "suggestion %q should be free", s)
	}
}

func TestRegistryNameLengthBounds(t *testing.T) {
	r := NewRegistry()

	_, err := r.Claim("a")
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = r.Claim(strings.Repeat("x", 21))
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = r.Claim("ab")
	require.NoError(t, err)

	_, err = r.Claim(strings.Repeat("y", 20))
	require.NoError(t, err)
}

func TestRegistryReleaseFreesNameAndIsIdempotent(t *testing.T) {
	r := NewRegistry()

	identity, err := r.Claim("alice")
	require.NoError(t, err)

	r.Release(identity)
	r.Release(identity) // second release is a no-op

	_, err = r.Claim("alice")
	require.NoError(t, err)
}

func TestRegistryReleaseIgnoresSupersededIdentity(t *testing.T) {
	r := NewRegistry()

	old, err := r.Claim("alice")
	require.NoError(t, err)
	r.Release(old)

	current, err := r.Claim("alice")
	require.NoError(t, err)

	// Releasing the stale identity must not free the new claim.
	r.Release(old)
	got, ok := r.Lookup("alice")
	require.True(t, ok)
	require.Equal(t, current.ID, got.ID)
}

func TestRegistryReattach(t *testing.T) {
	r := NewRegistry()

	identity, err := r.Claim("alice")
	require.NoError(t, err)
	r.Release(identity)

	require.NoError(t, r.Reattach(identity))

	got, ok := r.Lookup("ALICE")
	require.True(t, ok)
	require.Equal(t, identity.ID, got.ID)
}

func TestRegistryReattachFailsWhenNameReclaimed(t *testing.T) {
	r := NewRegistry()

	old, err := r.Claim("alice")
	require.NoError(t, err)
	r.Release(old)

	_, err = r.Claim("alice")
	require.NoError(t, err)

	require.ErrorIs(t, r.Reattach(old), ErrNameTaken)
}
