package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/prodex/internal/db"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prodex.bolt")
	s, err := NewStore(Config{Path: path})
	require.NoError(t, err)
	return s, path
}

func TestStore_SetGetDel(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	_, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, db.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)

	require.NoError(t, s.Del(ctx, "k"))
	require.NoError(t, s.Del(ctx, "k"))
	_, err = s.Get(ctx, "k")
	require.ErrorIs(t, err, db.ErrKeyNotFound)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("abc")))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'z'

	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), again)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "snapshot", []byte("payload")))
	s.Close()

	s2, err := NewStore(Config{Path: path})
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(ctx, "snapshot")
	require.NoError(t, err)
	require.Equal(t, "payload", string(got))
	require.NoError(t, s2.Ping(ctx))
}

func TestNewStore_RequiresPath(t *testing.T) {
	_, err := NewStore(Config{})
	require.Error(t, err)
}
