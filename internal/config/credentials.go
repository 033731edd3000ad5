package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// TokenPath is where the Strava OAuth token is stored.
func TokenPath() string {
	return filepath.Join(CredentialsDir(), "strava", "oauth.json")
}

// WriteCredential replaces the file at path with content, readable only
// by the owner. Readers never observe a partial write.
func WriteCredential(path string, content []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("writing credential: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if err := f.Chmod(0o600); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing credential: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing credential: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing credential: %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("writing credential: %w", err)
	}
	return nil
}

// ReadCredential returns nil, nil when the file does not exist.
func ReadCredential(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// DeleteCredential removes the file at path. It reports whether there was
// one to remove.
func DeleteCredential(path string) (bool, error) {
	err := os.Remove(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
