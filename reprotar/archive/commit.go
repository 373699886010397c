package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"strings"

	"github.com/anchore/reprotar/internal/log"
)

// addEntry is the only path through which entries reach the tar stream. An entry whose name was already written
// is dropped: silently for directories, with a warning otherwise (the first occurrence wins).
func (w *Writer) addEntry(header *tar.Header, content io.Reader) error {
	if header.Typeflag == tar.TypeDir && !strings.HasSuffix(header.Name, "/") {
		// "a/b" and "a/b/" are the same directory
		header.Name += "/"
	}

	if w.members.Has(header.Name) {
		if header.Typeflag != tar.TypeDir {
			log.Warnf("duplicate file in archive: %s, picking first occurrence", header.Name)
			w.duplicates = append(w.duplicates, header.Name)
		}
		return nil
	}

	if err := w.writer.WriteHeader(header); err != nil {
		return fmt.Errorf("unable to write header for %q: %w", header.Name, err)
	}

	if content != nil && header.Size > 0 {
		if n, err := io.CopyN(w.writer, content, header.Size); err != nil {
			return fmt.Errorf("unable to write content for %q (wrote %d of %d bytes): %w", header.Name, n, header.Size, err)
		}
	}

	// pads the entry and fails if fewer bytes than announced were written
	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("unable to finish entry %q: %w", header.Name, err)
	}

	w.members.Add(header.Name)
	return nil
}
