package badger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/stylematch/storage"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")
	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := OpenBackend(path, false)
	assert.Error(t, err)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())

	err = backend.WithTx(context.Background(), func(*badger.Txn) error { return nil }, false)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestWithTransaction(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	read := func(key string) (string, error) {
		var out string
		err := backend.WithTx(ctx, func(tx *badger.Txn) error {
			item, err := tx.Get([]byte(key))
			if err != nil {
				return err
			}
			val, err := item.ValueCopy(nil)
			out = string(val)
			return err
		}, false)
		return out, err
	}
	write := func(ctx context.Context, key, val string) error {
		return backend.WithTx(ctx, func(tx *badger.Txn) error {
			return tx.Set([]byte(key), []byte(val))
		}, true)
	}

	t.Run("commits joined writes", func(t *testing.T) {
		err := backend.WithTransaction(ctx, func(ctx context.Context) error {
			assert.True(t, InTransaction(ctx))
			if err := write(ctx, "a", "1"); err != nil {
				return err
			}
			return write(ctx, "b", "2")
		})
		require.NoError(t, err)

		v, err := read("a")
		require.NoError(t, err)
		assert.Equal(t, "1", v)
		v, err = read("b")
		require.NoError(t, err)
		assert.Equal(t, "2", v)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := backend.WithTransaction(ctx, func(ctx context.Context) error {
			require.NoError(t, write(ctx, "c", "3"))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = read("c")
		assert.ErrorIs(t, err, badger.ErrKeyNotFound)
	})

	t.Run("nested joins outer", func(t *testing.T) {
		boom := errors.New("outer failure")
		err := backend.WithTransaction(ctx, func(ctx context.Context) error {
			err := backend.WithTransaction(ctx, func(ctx context.Context) error {
				return write(ctx, "d", "4")
			})
			require.NoError(t, err)
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = read("d")
		assert.ErrorIs(t, err, badger.ErrKeyNotFound)
	})
}
