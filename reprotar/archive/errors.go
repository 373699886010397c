package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrRecursionDepthExceeded is returned by AddDir when the directory tree is deeper than the allowed depth,
	// which usually means a directory loop (e.g. a cyclic mount or symlink).
	ErrRecursionDepthExceeded = errors.New("recursion depth exceeded, probably in an infinite directory loop")

	ErrUnsupportedCompression = errors.New("unsupported compression")
)

// MergeError indicates that an archive given to AddTar could not be opened or decoded.
type MergeError struct {
	Path string
	Err  error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("unable to merge archive %q: %v", e.Path, e.Err)
}

func (e *MergeError) Unwrap() error {
	return e.Err
}
