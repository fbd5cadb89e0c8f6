package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/prodex/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestStore_SetGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v1")))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got)

	require.NoError(t, s.Set(ctx, "k", []byte("v2")))
	got, err = s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), got)
}

func TestStore_GetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "missing")
	require.ErrorIs(t, err, db.ErrKeyNotFound)
}

func TestStore_Del(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Del(ctx, "k"))
	require.NoError(t, s.Del(ctx, "k"))

	_, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, db.ErrKeyNotFound)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prodex.db")
	ctx := context.Background()

	s1, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "snapshot", []byte(`{"version":"1.0"}`)))
	s1.Close()

	s2, err := NewStore(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(ctx, "snapshot")
	require.NoError(t, err)
	require.JSONEq(t, `{"version":"1.0"}`, string(got))
}

func TestStore_Ready(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.WaitForReady(context.Background(), time.Second))
}

func TestNewStore_RequiresPath(t *testing.T) {
	_, err := NewStore("")
	require.Error(t, err)
}
