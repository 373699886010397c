package archive

import (
	"archive/tar"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/anchore/reprotar/internal/log"
)

// DefaultMaxDepth bounds directory recursion to protect against directory loops.
const DefaultMaxDepth = 100

// AddDir adds the directory at path (read from the writer filesystem) as name, recursing into its children in
// lexical order. The given mode applies to files; directories get the same mode with the execute bit added wherever
// the read bit is set. When path is not a directory it is added as a regular file.
func (w *Writer) AddDir(name, path string, attrs Attributes, depth int) error {
	name = w.rooted(name)
	attrs = attrs.withModTime(w.defaultModTime)

	isDir, err := afero.DirExists(w.fs, path)
	if err != nil {
		return err
	}
	if !isDir {
		return w.AddFile(Entry{Name: name, Typeflag: tar.TypeReg, Source: path, Attributes: attrs})
	}

	name = strings.TrimSuffix(name, "/")
	dirAttrs := attrs
	dirAttrs.Mode = directoryMode(attrs.Mode)
	if err := w.AddFile(Entry{Name: name + "/", Typeflag: tar.TypeDir, Attributes: dirAttrs}); err != nil {
		return err
	}

	if depth <= 0 {
		return fmt.Errorf("unable to add directory %q: %w", path, ErrRecursionDepthExceeded)
	}

	children, err := w.readDirNames(path)
	if err != nil {
		return err
	}

	for _, child := range children {
		if err := w.AddDir(name+"/"+child, filepath.Join(path, child), attrs, depth-1); err != nil {
			return err
		}
	}
	return nil
}

// readDirNames lists the immediate children of a directory, sorted so the result never depends on listing order.
func (w *Writer) readDirNames(path string) ([]string, error) {
	dir, err := w.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer log.CloseAndLogError(dir, path)

	names, err := dir.Readdirnames(-1)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
