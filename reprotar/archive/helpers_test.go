package archive

import (
	"archive/tar"
	"bytes"
	"io"
	"path/filepath"
	"sort"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// extracted is the comparable view of a written entry.
type extracted struct {
	Name     string
	Typeflag byte
	Mode     int64
	UID      int
	GID      int
	UName    string
	GName    string
	ModTime  int64
	Linkname string
	Content  string
}

// sourceEntry is an entry of a fixture archive.
type sourceEntry struct {
	header  tar.Header
	content string
}

func newTestFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
	return fs
}

func extractFile(t *testing.T, fs afero.Fs, path string) []extracted {
	t.Helper()
	by, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return extract(t, decompress(t, by, CompressionFromPath(path)))
}

func decompress(t *testing.T, by []byte, c Compression) io.Reader {
	t.Helper()
	switch c {
	case GzipCompression:
		r, err := gzip.NewReader(bytes.NewReader(by))
		require.NoError(t, err)
		return r
	case Bzip2Compression:
		r, err := bzip2.NewReader(bytes.NewReader(by), nil)
		require.NoError(t, err)
		return r
	}
	return bytes.NewReader(by)
}

func extract(t *testing.T, r io.Reader) []extracted {
	t.Helper()
	var entries []extracted
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		content, err := io.ReadAll(tr)
		require.NoError(t, err)

		entries = append(entries, extracted{
			Name:     hdr.Name,
			Typeflag: hdr.Typeflag,
			Mode:     hdr.Mode,
			UID:      hdr.Uid,
			GID:      hdr.Gid,
			UName:    hdr.Uname,
			GName:    hdr.Gname,
			ModTime:  hdr.ModTime.Unix(),
			Linkname: hdr.Linkname,
			Content:  string(content),
		})
	}
	return entries
}

func names(entries []extracted) []string {
	var result []string
	for _, e := range entries {
		result = append(result, e.Name)
	}
	return result
}

func find(t *testing.T, entries []extracted, name string) extracted {
	t.Helper()
	for _, e := range entries {
		if e.Name == name {
			return e
		}
	}
	t.Fatalf("entry %q not found in %v", name, names(entries))
	return extracted{}
}

// writeSourceTar writes a fixture archive, compressed according to its extension.
func writeSourceTar(t *testing.T, fs afero.Fs, path string, entries ...sourceEntry) {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := e.header
		hdr.Size = int64(len(e.content))
		require.NoError(t, tw.WriteHeader(&hdr))
		_, err := tw.Write([]byte(e.content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())

	data := buf.Bytes()
	var out bytes.Buffer
	compressor, err := newCompressor(&out, CompressionFromPath(path), 0)
	require.NoError(t, err)
	if compressor != nil {
		_, err = compressor.Write(data)
		require.NoError(t, err)
		require.NoError(t, compressor.Close())
		data = out.Bytes()
	}

	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, data, 0644))
}

// newTestWriter creates a writer over fs, failing the test on error. The writer must still be closed.
func newTestWriter(t *testing.T, fs afero.Fs, path string, cfg Config) *Writer {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	cfg.Fs = fs
	w, err := NewWriter(path, cfg)
	require.NoError(t, err)
	return w
}

// reversedListingFs lists directories in reverse lexical order.
type reversedListingFs struct {
	afero.Fs
}

func (fs reversedListingFs) Open(name string) (afero.File, error) {
	f, err := fs.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	return reversedListingFile{File: f}, nil
}

type reversedListingFile struct {
	afero.File
}

func (f reversedListingFile) Readdirnames(n int) ([]string, error) {
	names, err := f.File.Readdirnames(n)
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, err
}

func intPtr(i int) *int {
	return &i
}
