package credential

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrKeyNotFound is returned when the private key file does not exist
var ErrKeyNotFound = errors.New("private key file not found")

// KeyPath returns the location of a private key under home's .ssh folder.
// An empty home falls back to the current user's home directory.
func KeyPath(home, file string) (string, error) {
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("error locating home directory: %w", err)
		}
	}
	return filepath.Join(home, ".ssh", file), nil
}

// KeyError describes a key file that could not be verified. It always
// wraps ErrKeyNotFound.
type KeyError struct {
	Path string
	Err  error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// File returns the key file name without its directory
func (e *KeyError) File() string {
	return filepath.Base(e.Path)
}

// Verify checks that the key file exists. Permissions and contents are not
// looked at. A directory in its place, or a path that cannot be examined,
// counts as missing.
func Verify(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &KeyError{Path: path, Err: ErrKeyNotFound}
		}
		return &KeyError{Path: path, Err: fmt.Errorf("%w: %w", ErrKeyNotFound, err)}
	}
	if fi.IsDir() {
		return &KeyError{Path: path, Err: fmt.Errorf("%w: is a directory", ErrKeyNotFound)}
	}
	return nil
}
