package lock_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	shunterrors "shunt.dev/shunt/internal/errors"
	"shunt.dev/shunt/internal/lock"
)

func newLockDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
	return dir
}

func TestRepoLock(t *testing.T) {
	t.Run("acquire and release", func(t *testing.T) {
		dir := newLockDir(t)

		l, err := lock.Acquire(dir)
		require.NoError(t, err)
		l.Release()

		l2, err := lock.Acquire(dir)
		require.NoError(t, err)
		l2.Release()
	})

	t.Run("second acquire fails while held", func(t *testing.T) {
		dir := newLockDir(t)

		l, err := lock.Acquire(dir)
		require.NoError(t, err)
		defer l.Release()

		_, err = lock.Acquire(dir)
		require.ErrorIs(t, err, shunterrors.ErrConcurrentExecution)
	})

	t.Run("stale lock from a dead process is reclaimed", func(t *testing.T) {
		dir := newLockDir(t)

		// No live process has this pid on any sane system
		path := filepath.Join(dir, ".git", "shunt.lock")
		require.NoError(t, os.WriteFile(path, []byte("999999999\n"), 0600))

		l, err := lock.Acquire(dir)
		require.NoError(t, err)
		l.Release()
	})

	t.Run("release is safe to call twice", func(t *testing.T) {
		dir := newLockDir(t)

		l, err := lock.Acquire(dir)
		require.NoError(t, err)
		l.Release()
		l.Release()
	})
}
