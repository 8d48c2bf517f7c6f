package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aarogyalekha/hospital-portal/internal/models"
	"github.com/aarogyalekha/hospital-portal/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract exercises the behavior every Store backend must share.
func storeContract(t *testing.T, store session.Store) {
	ctx := context.Background()

	t.Run("empty store has no credentials", func(t *testing.T) {
		_, err := store.GetCredential(ctx, session.RoleAdmin)
		assert.ErrorIs(t, err, session.ErrNoCredential)
		_, err = store.GetCredential(ctx, session.RoleDoctor)
		assert.ErrorIs(t, err, session.ErrNoCredential)
	})

	t.Run("set and get round-trip", func(t *testing.T) {
		err := store.SetCredential(ctx, session.RoleAdmin, "tok-1", models.UserProfile{ID: "a1", Username: "admin"})
		require.NoError(t, err)

		cred, err := store.GetCredential(ctx, session.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, session.RoleAdmin, cred.Role)
		assert.Equal(t, "tok-1", cred.Token)
		assert.Equal(t, "admin", cred.User.Username)
	})

	t.Run("setting one role drops the other", func(t *testing.T) {
		require.NoError(t, store.SetCredential(ctx, session.RoleAdmin, "tok-admin", models.UserProfile{ID: "a1"}))
		require.NoError(t, store.SetCredential(ctx, session.RoleDoctor, "tok-doctor", models.UserProfile{ID: "d1"}))

		_, err := store.GetCredential(ctx, session.RoleAdmin)
		assert.ErrorIs(t, err, session.ErrNoCredential)

		cred, err := store.GetCredential(ctx, session.RoleDoctor)
		require.NoError(t, err)
		assert.Equal(t, "tok-doctor", cred.Token)

		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Nil(t, snap.Admin)
		require.NotNil(t, snap.Doctor)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		require.NoError(t, store.SetCredential(ctx, session.RoleDoctor, "tok", models.UserProfile{ID: "d1"}))
		require.NoError(t, store.Clear(ctx, session.RoleDoctor))
		require.NoError(t, store.Clear(ctx, session.RoleDoctor))

		_, err := store.GetCredential(ctx, session.RoleDoctor)
		assert.ErrorIs(t, err, session.ErrNoCredential)
	})

	t.Run("clearing one role leaves the other", func(t *testing.T) {
		require.NoError(t, store.SetCredential(ctx, session.RoleAdmin, "tok-admin", models.UserProfile{ID: "a1"}))
		require.NoError(t, store.Clear(ctx, session.RoleDoctor))

		cred, err := store.GetCredential(ctx, session.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, "tok-admin", cred.Token)
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, session.NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := session.NewFileStore(path)
	require.NoError(t, err)
	storeContract(t, store)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	store, err := session.NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetCredential(ctx, session.RoleDoctor, "tok-doctor", models.UserProfile{ID: "d1", Name: "Dr. Mehta"}))

	// A new store over the same file sees the session, like a page
	// reload re-reading browser storage.
	reopened, err := session.NewFileStore(path)
	require.NoError(t, err)

	cred, err := reopened.GetCredential(ctx, session.RoleDoctor)
	require.NoError(t, err)
	assert.Equal(t, "tok-doctor", cred.Token)
	assert.Equal(t, "Dr. Mehta", cred.User.Name)

	_, err = reopened.GetCredential(ctx, session.RoleAdmin)
	assert.ErrorIs(t, err, session.ErrNoCredential)
}

func TestFileStoreToleratesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store, err := session.NewFileStore(path)
	require.NoError(t, err)

	_, err = store.GetCredential(context.Background(), session.RoleAdmin)
	assert.ErrorIs(t, err, session.ErrNoCredential)
}
