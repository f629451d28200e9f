package flowstate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-login-server/server/flowstate"
)

func TestInMemoryRepo_ConsumeIsSingleUse(t *testing.T) {
	repo := flowstate.NewInMemoryRepo()

	require.NoError(t, repo.Put("nonce-1", flowstate.State{ReturnURL: "/dashboard"}))

	state, ok := repo.Consume("nonce-1")
	require.True(t, ok)
	require.Equal(t, "/dashboard", state.ReturnURL)

	_, ok = repo.Consume("nonce-1")
	require.False(t, ok)
}

func TestInMemoryRepo_UnknownNonce(t *testing.T) {
	repo := flowstate.NewInMemoryRepo()

	_, ok := repo.Consume("never-issued")
	require.False(t, ok)

	_, ok = repo.Consume("")
	require.False(t, ok)
}

func TestInMemoryRepo_EmptyNonceRejected(t *testing.T) {
	repo := flowstate.NewInMemoryRepo()
	require.Error(t, repo.Put("", flowstate.State{}))
}

func TestInMemoryRepo_ExpiredNonce(t *testing.T) {
	repo := flowstate.NewInMemoryRepo()

	stale := flowstate.State{CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.Put("nonce-stale", stale))

	_, ok := repo.Consume("nonce-stale")
	require.False(t, ok)
}
