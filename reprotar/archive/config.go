package archive

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// PortableModTime is 2000-01-01 00:00:00 UTC, a timestamp that other platforms' tools do not choke on.
const PortableModTime int64 = 946684800

// portableModTimeValue is the config value that selects PortableModTime.
const portableModTimeValue = "portable"

type Compression string

const (
	NoCompression    Compression = ""
	GzipCompression  Compression = "gzip"
	Bzip2Compression Compression = "bzip2"
	// XzCompression is only supported for archives that are merged, never for the output.
	XzCompression Compression = "xz"
)

// Config is the immutable configuration of a Writer.
type Config struct {
	// Compression applied to the whole output stream.
	Compression Compression
	// RootDirectory is prepended to every entry name that is not absolute or already under it.
	RootDirectory string
	// DefaultModTime (unix seconds) is used for every entry without an explicit modification time.
	DefaultModTime int64
	// PreserveMergedTimes keeps the modification times of entries merged from other archives.
	PreserveMergedTimes bool
	// Fs is used for all source and output file access, defaulting to the OS filesystem.
	Fs afero.Fs
}

// DefaultConfig places all entries under "./" with an epoch modification time.
func DefaultConfig() Config {
	return Config{
		RootDirectory: "./",
	}
}

func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return NoCompression, nil
	case "gz", "tgz", "gzip":
		return GzipCompression, nil
	case "bz2", "bzip2":
		return Bzip2Compression, nil
	}
	return NoCompression, fmt.Errorf("%w: %q", ErrUnsupportedCompression, s)
}

// CompressionFromPath infers the compression of an archive from its file extension.
func CompressionFromPath(p string) Compression {
	switch strings.ToLower(path.Ext(p)) {
	case ".gz", ".tgz":
		return GzipCompression
	case ".bz2", ".bzip2":
		return Bzip2Compression
	case ".xz", ".txz":
		return XzCompression
	}
	return NoCompression
}

// ParseModTime accepts unix seconds or "portable"; an empty value is the epoch.
func ParseModTime(s string) (int64, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0, nil
	case portableModTimeValue:
		return PortableModTime, nil
	}
	mtime, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid modification time %q (expected seconds since epoch or %q): %w", s, portableModTimeValue, err)
	}
	return mtime, nil
}
