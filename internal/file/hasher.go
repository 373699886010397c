package file

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"github.com/spf13/afero"

	"github.com/anchore/reprotar/internal/log"
)

// Digest returns the sha256 digest of the file at path, in the "sha256:<hex>" form.
func Digest(fs afero.Fs, path string) (string, error) {
	sum, err := HashFile(fs, path, sha256.New())
	if err != nil {
		return "", err
	}
	return "sha256:" + sum, nil
}

// HashFile returns the hex encoded hash of the file contents.
func HashFile(fs afero.Fs, path string, hasher hash.Hash) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file '%s': %w", path, err)
	}
	defer log.CloseAndLogError(f, path)

	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("failed to hash file '%s': %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
