package bboltstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/precifi/precifi-go/storage"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func TestSetGetDelete(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Get(context.Background(), "auth_token")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Set(context.Background(), "auth_token", "tok-1"))
	v, err := s.Get(context.Background(), "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", v)

	require.NoError(t, s.Delete(context.Background(), "auth_token"))
	_, err = s.Get(context.Background(), "auth_token")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteMissingKeyIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)
	assert.NoError(t, s.Delete(context.Background(), "never_set"))
}

func TestReopenPreservesValues(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), "auth_token", "tok-1"))
	require.NoError(t, s.Set(context.Background(), "auth_user", `{"id":"1"}`))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Get(context.Background(), "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", v)
	v, err = s.Get(context.Background(), "auth_user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, v)
}

func TestValuesSealedOnDisk(t *testing.T) {
	s, dir := newTestStore(t)

	secret := "very-secret-bearer-token"
	require.NoError(t, s.Set(context.Background(), "auth_token", secret))
	require.NoError(t, s.Close())

	raw, err := os.ReadFile(filepath.Join(dir, dbFileName))
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), secret), "plaintext must not appear in the db file")
}

func TestValueBoundToKeyName(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.Set(context.Background(), "auth_token", "tok-1"))

	// Copy the sealed bytes under a different key; unsealing must fail
	// because the key name is part of the AAD.
	var sealed []byte
	require.NoError(t, s.db.View(func(tx *bbolt.Tx) error {
		sealed = append([]byte(nil), tx.Bucket([]byte(bucketName)).Get([]byte("auth_token"))...)
		return nil
	}))
	require.NoError(t, s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte("auth_user"), sealed)
	}))

	_, err := s.Get(context.Background(), "auth_user")
	assert.Error(t, err)
}

func TestInvalidMasterKeyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, keyFileName), []byte("short"), 0o600))

	_, err := Open(dir)
	assert.ErrorContains(t, err, "invalid size")
}
