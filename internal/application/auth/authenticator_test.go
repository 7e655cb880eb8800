package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklens/server/internal/domain"
)

const testOwnerID = "0194e7a3-2b1c-7d4e-8f90-1234567890ab"

func TestParseKeys(t *testing.T) {
	t.Run("empty input yields empty map", func(t *testing.T) {
		owners, err := ParseKeys("")
		require.NoError(t, err)
		assert.Empty(t, owners)
	})

	t.Run("parses pairs", func(t *testing.T) {
		owners, err := ParseKeys("tok-one:" + testOwnerID + ", tok-two:" + testOwnerID)
		require.NoError(t, err)
		assert.Len(t, owners, 2)
		assert.Equal(t, testOwnerID, owners["tok-one"])
	})

	t.Run("rejects malformed entry", func(t *testing.T) {
		_, err := ParseKeys("no-separator")
		assert.Error(t, err)
	})

	t.Run("rejects non-uuid owner", func(t *testing.T) {
		_, err := ParseKeys("tok:not-a-uuid")
		assert.Error(t, err)
	})
}

func TestAuthenticator_ResolveOwner(t *testing.T) {
	authenticator := NewAuthenticator(map[string]string{"tok-one": testOwnerID})
	ctx := context.Background()

	t.Run("known token resolves", func(t *testing.T) {
		ownerID, err := authenticator.ResolveOwner(ctx, "tok-one")
		require.NoError(t, err)
		assert.Equal(t, testOwnerID, ownerID)
	})

	t.Run("unknown token is unauthorized", func(t *testing.T) {
		_, err := authenticator.ResolveOwner(ctx, "tok-bogus")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("empty token is unauthorized", func(t *testing.T) {
		_, err := authenticator.ResolveOwner(ctx, "")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestOwnerIDContextRoundTrip(t *testing.T) {
	ctx := ContextWithOwnerID(context.Background(), testOwnerID)

	ownerID, ok := OwnerIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, testOwnerID, ownerID)

	_, ok = OwnerIDFromContext(context.Background())
	assert.False(t, ok)
}
