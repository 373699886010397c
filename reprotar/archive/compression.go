package archive

import (
	"fmt"
	"io"
	"time"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/xi2/xz"
)

// newCompressor wraps w with the given compression. A nil writer is returned when no compression is requested.
func newCompressor(w io.Writer, c Compression, modTime int64) (io.WriteCloser, error) {
	switch c {
	case NoCompression:
		return nil, nil
	case GzipCompression:
		gz, err := gzip.NewWriterLevel(w, gzip.BestCompression)
		if err != nil {
			return nil, fmt.Errorf("unable to create gzip writer: %w", err)
		}
		// the gzip header must not carry the build time
		gz.Header.ModTime = time.Unix(modTime, 0)
		return gz, nil
	case Bzip2Compression:
		bz, err := bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.BestCompression})
		if err != nil {
			return nil, fmt.Errorf("unable to create bzip2 writer: %w", err)
		}
		return bz, nil
	case XzCompression:
		return nil, fmt.Errorf("%w: xz archives can only be merged, not written", ErrUnsupportedCompression)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedCompression, c)
}

// newDecompressor wraps r with a streaming decoder for the given compression. A nil reader is returned when the
// stream is not compressed.
func newDecompressor(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case NoCompression:
		return nil, nil
	case GzipCompression:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("unable to read gzip stream: %w", err)
		}
		return gz, nil
	case Bzip2Compression:
		bz, err := bzip2.NewReader(r, nil)
		if err != nil {
			return nil, fmt.Errorf("unable to read bzip2 stream: %w", err)
		}
		return bz, nil
	case XzCompression:
		// a zero dictMax selects the decoder default (64 MiB)
		xr, err := xz.NewReader(r, 0)
		if err != nil {
			return nil, fmt.Errorf("unable to read xz stream: %w", err)
		}
		return io.NopCloser(xr), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedCompression, c)
}
