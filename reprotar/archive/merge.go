package archive

import (
	"archive/tar"
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/anchore/reprotar/internal/log"
	"github.com/anchore/reprotar/internal/stringutil"
)

const sniffLength = 3072

// MergeOptions control how the entries of an existing archive are rewritten by AddTar.
type MergeOptions struct {
	// RootUID is the user id that is rewritten to root (uid 0, user name "root").
	RootUID *int
	// RootGID is the group id that is rewritten to root (gid 0, group name "root").
	RootGID *int
	// Numeric drops the user and group names, keeping only the numeric ids.
	Numeric bool
	// NameFilter, when set, is called with every entry name and must return true to keep the entry.
	NameFilter func(name string) bool
	// Root relocates every entry relative to the current directory ("." or "./"-prefixed) under the given directory.
	Root string
}

// AddTar copies every entry of the archive at path into this archive. The compression of the source is inferred
// from its extension, or from its leading bytes when the extension names none. The source is read as a stream.
// Entries that were committed before a failure stay in the output.
func (w *Writer) AddTar(path string, opts MergeOptions) error {
	src, err := openTarSource(w.fs, path)
	if err != nil {
		return &MergeError{Path: path, Err: err}
	}
	defer log.CloseAndLogError(src, path)

	log.Debugf("merging archive=%q into %q", path, w.path)

	root := relocationRoot(opts.Root)
	for {
		header, content, err := src.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &MergeError{Path: path, Err: err}
		}

		// global pax headers carry archive metadata (e.g. the commit of a git archive), not members
		if header.Typeflag == tar.TypeXGlobalHeader {
			continue
		}

		if opts.NameFilter != nil && !opts.NameFilter(header.Name) {
			continue
		}

		if err := w.addMergedEntry(header, content, opts, root); err != nil {
			if src.err != nil {
				return &MergeError{Path: path, Err: src.err}
			}
			return err
		}
	}
}

func (w *Writer) addMergedEntry(header *tar.Header, content io.Reader, opts MergeOptions, root string) error {
	if header.Typeflag == '\x00' {
		// pre-POSIX regular file
		header.Typeflag = tar.TypeReg
	}
	header.Format = tar.FormatUnknown

	if !w.preserveMergedTimes {
		header.ModTime = w.defaultTime()
		header.AccessTime = time.Time{}
		header.ChangeTime = time.Time{}
		for _, key := range []string{"mtime", "atime", "ctime"} {
			delete(header.PAXRecords, key)
		}
	}

	if opts.RootUID != nil && header.Uid == *opts.RootUID {
		header.Uid = 0
		header.Uname = "root"
	}
	if opts.RootGID != nil && header.Gid == *opts.RootGID {
		header.Gid = 0
		header.Gname = "root"
	}
	if opts.Numeric {
		header.Uname = ""
		header.Gname = ""
	}

	name := w.rooted(header.Name)
	if root != "" {
		if isCurrentDirName(name) {
			name = relocate(root, name)
			err := w.AddFile(Entry{
				Name:     root,
				Typeflag: tar.TypeDir,
				Attributes: Attributes{
					UID:     header.Uid,
					GID:     header.Gid,
					UName:   header.Uname,
					GName:   header.Gname,
					Mode:    defaultDirMode,
					ModTime: header.ModTime,
				},
			})
			if err != nil {
				return err
			}
		}
		// keep hardlinks inside the archive pointing at the relocated files
		if header.Typeflag == tar.TypeLink && isCurrentDirName(header.Linkname) {
			header.Linkname = relocate(root, header.Linkname)
		}
	}
	header.Name = name

	if header.Typeflag == tar.TypeReg {
		return w.addEntry(header, content)
	}
	return w.addEntry(header, nil)
}

// relocationRoot makes sure a relocation root is either absolute or explicitly relative.
func relocationRoot(root string) string {
	if root == "" || stringutil.HasAnyOfPrefixes(root, "/", ".") {
		return root
	}
	return "/" + root
}

// isCurrentDirName reports whether name is relative to the current directory ("." or "./..."). Hidden files such
// as ".bashrc" are not.
func isCurrentDirName(name string) bool {
	return name == "." || strings.HasPrefix(name, "./")
}

// relocate moves a "./"-prefixed name under root, e.g. "./foo" under "/app" becomes "/app/foo".
func relocate(root, name string) string {
	return root + strings.TrimPrefix(name, ".")
}

// tarSource is a forward-only view over the entries of an archive. The content reader returned with each header is
// only valid until the next call to next.
type tarSource struct {
	file         afero.File
	decompressor io.ReadCloser
	reader       *tar.Reader
	// err is the first failure seen while reading entry content
	err error
}

func openTarSource(fs afero.Fs, path string) (*tarSource, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, err
	}

	// bufio hides io.Seeker from archive/tar, so the archive is always consumed as a stream
	buffered := bufio.NewReader(file)
	var r io.Reader = buffered

	compression := CompressionFromPath(path)
	if compression == NoCompression {
		compression = sniffCompression(buffered)
	}

	decompressor, err := newDecompressor(r, compression)
	if err != nil {
		log.CloseAndLogError(file, path)
		return nil, err
	}
	if decompressor != nil {
		r = decompressor
	}

	return &tarSource{
		file:         file,
		decompressor: decompressor,
		reader:       tar.NewReader(r),
	}, nil
}

// sniffCompression detects a compressed stream from its leading bytes without consuming them.
func sniffCompression(r *bufio.Reader) Compression {
	// a short stream is still sniffed with whatever could be read
	head, _ := r.Peek(sniffLength)
	if len(head) == 0 {
		return NoCompression
	}

	mType := mimetype.Detect(head)
	switch {
	case mType.Is("application/gzip"):
		return GzipCompression
	case mType.Is("application/x-bzip2"):
		return Bzip2Compression
	case mType.Is("application/x-xz"):
		return XzCompression
	}
	return NoCompression
}

func (s *tarSource) next() (*tar.Header, io.Reader, error) {
	header, err := s.reader.Next()
	if err != nil {
		return nil, nil, err
	}
	return header, sourceContent{source: s}, nil
}

func (s *tarSource) Close() error {
	var errs error
	if s.decompressor != nil {
		if err := s.decompressor.Close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("unable to close decompressor: %w", err))
		}
	}
	if err := s.file.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs
}

// sourceContent records decoding failures so they can be reported as merge errors rather than write errors.
type sourceContent struct {
	source *tarSource
}

func (c sourceContent) Read(p []byte) (int, error) {
	n, err := c.source.reader.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && c.source.err == nil {
		c.source.err = err
	}
	return n, err
}
