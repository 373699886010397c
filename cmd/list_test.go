package cmd

import (
	"archive/tar"
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchore/reprotar/reprotar/archive"
)

func TestListArchive(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/motd", []byte("welcome"), 0644))

	cfg := archive.DefaultConfig()
	cfg.Fs = fs
	cfg.DefaultModTime = archive.PortableModTime
	w, err := archive.NewWriter("/out/test.tar", cfg)
	require.NoError(t, err)
	require.NoError(t, w.AddFile(archive.Entry{
		Name:       "etc/motd",
		Source:     "/src/motd",
		Attributes: archive.Attributes{UID: 1, GID: 2, UName: "app", GName: "staff", Mode: 0600},
	}))
	require.NoError(t, w.AddLink("bin/sh", "busybox", archive.Attributes{}))
	require.NoError(t, w.Close())

	var out bytes.Buffer
	require.NoError(t, listArchive(&out, fs, "/out/test.tar"))

	listing := out.String()
	assert.Contains(t, listing, "MODE")
	assert.Contains(t, listing, "-rw-------")
	assert.Contains(t, listing, "1/2")
	assert.Contains(t, listing, "app/staff")
	assert.Contains(t, listing, "2000-01-01T00:00:00Z")
	assert.Contains(t, listing, "./etc/motd")
	assert.Contains(t, listing, "./bin/sh -> busybox")
}

func TestListArchive_Empty(t *testing.T) {
	fs := afero.NewMemMapFs()
	var buf bytes.Buffer
	require.NoError(t, tar.NewWriter(&buf).Close())
	require.NoError(t, afero.WriteFile(fs, "/empty.tar", buf.Bytes(), 0644))

	var out bytes.Buffer
	require.NoError(t, listArchive(&out, fs, "/empty.tar"))
	assert.Equal(t, "No entries found\n", out.String())
}

func TestListArchive_MissingArchive(t *testing.T) {
	assert.Error(t, listArchive(&bytes.Buffer{}, afero.NewMemMapFs(), "/missing.tar"))
}

func TestEntryRow(t *testing.T) {
	tests := []struct {
		name  string
		entry archive.EntryInfo
		want  []string
	}{
		{
			name:  "directory",
			entry: archive.EntryInfo{Name: "./", Typeflag: tar.TypeDir, Mode: 0755},
			want:  []string{"drwxr-xr-x", "0/0", "", "0", "1970-01-01T00:00:00Z", "./"},
		},
		{
			name: "hardlink",
			entry: archive.EntryInfo{
				Name: "./b", Linkname: "./a", Typeflag: tar.TypeLink, Mode: 0644, UName: "root", GName: "root",
				ModTime: 946684800,
			},
			want: []string{"-rw-r--r--", "0/0", "root/root", "0", "2000-01-01T00:00:00Z", "./b link to ./a"},
		},
		{
			name:  "regular file",
			entry: archive.EntryInfo{Name: "./a", Typeflag: tar.TypeReg, Mode: 0640, UID: 1000, GID: 1000, Size: 12},
			want:  []string{"-rw-r-----", "1000/1000", "", "12", "1970-01-01T00:00:00Z", "./a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entryRow(tt.entry))
		})
	}
}
