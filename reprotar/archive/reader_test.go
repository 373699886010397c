package archive

import (
	"archive/tar"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEntries(t *testing.T) {
	fs := newTestFs(t, nil)
	cfg := DefaultConfig()
	cfg.Compression = GzipCompression
	cfg.DefaultModTime = PortableModTime

	w := newTestWriter(t, fs, "/out/test.tar.gz", cfg)
	require.NoError(t, w.AddEmptyFile("etc/motd", Attributes{UID: 1, GID: 2, UName: "app", GName: "staff", Mode: 0600}))
	require.NoError(t, w.AddLink("bin/sh", "busybox", Attributes{}))
	require.NoError(t, w.Close())

	for _, path := range []string{"/out/test.tar.gz", "/out/archive"} {
		t.Run(path, func(t *testing.T) {
			if path == "/out/archive" {
				require.NoError(t, fs.Rename("/out/test.tar.gz", path))
			}

			entries, err := ReadEntries(fs, path)
			require.NoError(t, err)

			var got []string
			for _, e := range entries {
				got = append(got, e.Name)
			}
			assert.Equal(t, []string{"./", "./etc/", "./etc/motd", "./bin/", "./bin/sh"}, got)

			motd := entries[2]
			assert.Equal(t, EntryInfo{
				Name:     "./etc/motd",
				Typeflag: tar.TypeReg,
				Mode:     0600,
				UID:      1,
				GID:      2,
				UName:    "app",
				GName:    "staff",
				ModTime:  PortableModTime,
			}, motd)

			link := entries[4]
			assert.Equal(t, byte(tar.TypeSymlink), link.Typeflag)
			assert.Equal(t, "busybox", link.Linkname)
		})
	}
}

func TestReadEntries_Errors(t *testing.T) {
	fs := newTestFs(t, map[string]string{"/in/garbage.tar": strings.Repeat("garbage!", 128)})

	_, err := ReadEntries(fs, "/in/missing.tar")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = ReadEntries(fs, "/in/garbage.tar")
	require.Error(t, err)
}
