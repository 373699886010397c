/*
Package archive writes reproducible tar archives. Entry metadata is normalized (modification time, ownership and
permissions), directories are walked in sorted order, and every entry name is written at most once, so the same
inputs always produce the same bytes.
*/
package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/scylladb/go-set/strset"
	"github.com/spf13/afero"

	"github.com/anchore/reprotar/internal/bytecounter"
	"github.com/anchore/reprotar/internal/log"
)

// lowLevelWriter abstracts the *tar.Writer from the standard library.
type lowLevelWriter interface {
	WriteHeader(*tar.Header) error
	Flush() error
	io.WriteCloser
}

// Writer accumulates entries into a single tar stream. A Writer is not safe for concurrent use, and must not be
// used after Close.
type Writer struct {
	path                string
	compression         Compression
	rootDirectory       string
	defaultModTime      int64
	preserveMergedTimes bool
	fs                  afero.Fs

	file       io.Closer
	counter    *bytecounter.ByteCounter
	compressor io.WriteCloser
	writer     lowLevelWriter

	// members holds every committed entry name (directories with a trailing slash)
	members *strset.Set
	// directories holds directory names committed through AddFile (without a trailing slash)
	directories *strset.Set
	duplicates  []string
}

// NewWriter creates the archive at the given path. The caller must Close the writer to flush the archive.
func NewWriter(path string, cfg Config) (*Writer, error) {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}

	file, err := cfg.Fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("unable to create archive %q: %w", path, err)
	}

	counter := bytecounter.New(file)
	compressor, err := newCompressor(counter, cfg.Compression, cfg.DefaultModTime)
	if err != nil {
		log.CloseAndLogError(file, path)
		if rmErr := cfg.Fs.Remove(path); rmErr != nil {
			log.Warnf("unable to remove archive %q: %+v", path, rmErr)
		}
		return nil, err
	}

	var out io.Writer = counter
	if compressor != nil {
		out = compressor
	}

	w := newWriter(cfg, tar.NewWriter(out))
	w.path = path
	w.file = file
	w.counter = counter
	w.compressor = compressor

	log.Debugf("creating archive=%q compression=%q root=%q", path, cfg.Compression, w.rootDirectory)
	return w, nil
}

func newWriter(cfg Config, tw lowLevelWriter) *Writer {
	return &Writer{
		compression:         cfg.Compression,
		rootDirectory:       strings.TrimRight(cfg.RootDirectory, "/"),
		defaultModTime:      cfg.DefaultModTime,
		preserveMergedTimes: cfg.PreserveMergedTimes,
		fs:                  cfg.Fs,
		writer:              tw,
		members:             strset.New(),
		directories:         strset.New(),
	}
}

// Duplicates lists the names that were skipped because an entry with the same name was already written.
func (w *Writer) Duplicates() []string {
	return append([]string(nil), w.duplicates...)
}

// Entries is the number of entries written so far.
func (w *Writer) Entries() int {
	return w.members.Size()
}

// BytesWritten is the number of (compressed) bytes written to the output file so far.
func (w *Writer) BytesWritten() int64 {
	if w.counter == nil {
		return 0
	}
	return w.counter.N
}

func (w *Writer) defaultTime() time.Time {
	return time.Unix(w.defaultModTime, 0)
}

// Close finalizes the tar stream and releases the compressor and the output file.
func (w *Writer) Close() error {
	var errs error

	if w.writer != nil {
		if err := w.writer.Close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("unable to close tar writer: %w", err))
		}
		w.writer = nil
	}

	if w.compressor != nil {
		if err := w.compressor.Close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("unable to close %s compressor: %w", w.compression, err))
		}
		w.compressor = nil
	}

	if w.file != nil {
		if err := w.file.Close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("unable to close archive %q: %w", w.path, err))
		}
		w.file = nil
	}

	return errs
}
