package credential

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyPath(t *testing.T) {
	r := require.New(t)

	path, err := KeyPath("/home/ubuntu", "qa-cos3.pem")
	r.NoError(err)
	r.Equal("/home/ubuntu/.ssh/qa-cos3.pem", path)

	t.Setenv("HOME", "/tmp/somebody")
	path, err = KeyPath("", "qa-cos3.pem")
	r.NoError(err)
	r.Equal("/tmp/somebody/.ssh/qa-cos3.pem", path)
}

func TestVerify(t *testing.T) {
	home := t.TempDir()
	r := require.New(t)
	r.NoError(os.MkdirAll(filepath.Join(home, ".ssh", "dir.pem"), 0o700))
	r.NoError(os.WriteFile(filepath.Join(home, ".ssh", "qa-cos3.pem"), nil, 0o000))

	t.Run("present", func(t *testing.T) {
		path, _ := KeyPath(home, "qa-cos3.pem")
		require.NoError(t, Verify(path))
	})

	t.Run("absent", func(t *testing.T) {
		r := require.New(t)
		path, _ := KeyPath(home, "missing.pem")
		err := Verify(path)
		r.ErrorIs(err, ErrKeyNotFound)

		var keyErr *KeyError
		r.ErrorAs(err, &keyErr)
		r.Equal("missing.pem", keyErr.File())
		r.Equal(path, keyErr.Path)
	})

	t.Run("unreadable folder", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("permissions are not enforced for root")
		}
		r := require.New(t)
		locked := filepath.Join(t.TempDir(), "locked")
		r.NoError(os.MkdirAll(filepath.Join(locked, ".ssh"), 0o700))
		r.NoError(os.Chmod(filepath.Join(locked, ".ssh"), 0o000))
		t.Cleanup(func() { _ = os.Chmod(filepath.Join(locked, ".ssh"), 0o700) })

		path, _ := KeyPath(locked, "qa-cos3.pem")
		err := Verify(path)
		r.ErrorIs(err, ErrKeyNotFound)
		r.ErrorIs(err, os.ErrPermission)
	})

	t.Run("not a directory", func(t *testing.T) {
		r := require.New(t)
		path := filepath.Join(home, ".ssh", "qa-cos3.pem", "nested.pem")
		err := Verify(path)
		r.ErrorIs(err, ErrKeyNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		path, _ := KeyPath(home, "dir.pem")
		require.ErrorIs(t, Verify(path), ErrKeyNotFound)
	})
}
