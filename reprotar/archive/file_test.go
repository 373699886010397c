package archive

import (
	"archive/tar"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_AddFile_SynthesizesAncestors(t *testing.T) {
	fs := newTestFs(t, map[string]string{"/src/file.txt": "hello"})
	w := newTestWriter(t, fs, "/out.tar", DefaultConfig())

	owner := Attributes{UID: 1, GID: 2, UName: "user", GName: "group"}
	source := owner
	source.Mode = 0600
	require.NoError(t, w.AddFile(Entry{Name: "a/b/c/file.txt", Source: "/src/file.txt", Attributes: source}))
	require.NoError(t, w.Close())

	dir := func(name string) extracted {
		return extracted{Name: name, Typeflag: tar.TypeDir, Mode: 0755, UID: 1, GID: 2, UName: "user", GName: "group"}
	}
	want := []extracted{
		dir("./"),
		dir("./a/"),
		dir("./a/b/"),
		dir("./a/b/c/"),
		{Name: "./a/b/c/file.txt", Typeflag: tar.TypeReg, Mode: 0600, UID: 1, GID: 2, UName: "user", GName: "group", Content: "hello"},
	}

	if d := cmp.Diff(want, extractFile(t, fs, "/out.tar")); d != "" {
		t.Errorf("unexpected entries (-want +got):\n%s", d)
	}
}

func TestWriter_AddFile_RootDirectory(t *testing.T) {
	tests := []struct {
		name  string
		root  string
		entry string
		want  []string
	}{
		{
			name:  "default root",
			root:  "./",
			entry: "foo",
			want:  []string{"./", "./foo"},
		},
		{
			name:  "already rooted",
			root:  "./",
			entry: "./foo",
			want:  []string{"./", "./foo"},
		},
		{
			name:  "absolute names are kept",
			root:  "./",
			entry: "/etc/conf",
			want:  []string{"/etc/", "/etc/conf"},
		},
		{
			name:  "no root",
			root:  "",
			entry: "a/foo",
			want:  []string{"a/", "a/foo"},
		},
		{
			name:  "absolute root",
			root:  "/opt/app/",
			entry: "bin/tool",
			want:  []string{"/opt/", "/opt/app/", "/opt/app/bin/", "/opt/app/bin/tool"},
		},
		{
			name:  "root is applied once",
			root:  "/opt/app",
			entry: "/opt/app/bin/tool",
			want:  []string{"/opt/", "/opt/app/", "/opt/app/bin/", "/opt/app/bin/tool"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newTestFs(t, nil)
			w := newTestWriter(t, fs, "/out.tar", Config{RootDirectory: tt.root})
			require.NoError(t, w.AddEmptyFile(tt.entry, Attributes{}))
			require.NoError(t, w.Close())

			assert.Equal(t, tt.want, names(extractFile(t, fs, "/out.tar")))
		})
	}
}

func TestWriter_AddFile_FirstOccurrenceWins(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		"/src/one": "first",
		"/src/two": "second",
	})
	w := newTestWriter(t, fs, "/out.tar", DefaultConfig())

	require.NoError(t, w.AddFile(Entry{Name: "x", Source: "/src/one"}))
	require.NoError(t, w.AddFile(Entry{Name: "x", Source: "/src/two"}))
	require.NoError(t, w.AddEmptyDir("d", Attributes{}))
	require.NoError(t, w.AddEmptyDir("d/", Attributes{}))
	require.NoError(t, w.AddEmptyDir("./d", Attributes{Mode: 0700}))
	require.NoError(t, w.Close())

	entries := extractFile(t, fs, "/out.tar")
	assert.Equal(t, []string{"./", "./x", "./d/"}, names(entries))
	assert.Equal(t, "first", find(t, entries, "./x").Content)
	assert.Equal(t, int64(0755), find(t, entries, "./d/").Mode)
	assert.Equal(t, []string{"./x"}, w.Duplicates())
}

func TestWriter_AddFile_ModTime(t *testing.T) {
	fs := newTestFs(t, nil)
	cfg := DefaultConfig()
	cfg.DefaultModTime = PortableModTime
	w := newTestWriter(t, fs, "/out.tar", cfg)

	require.NoError(t, w.AddEmptyFile("portable", Attributes{}))
	require.NoError(t, w.AddEmptyFile("explicit", Attributes{ModTime: time.Unix(42, 0)}))
	require.NoError(t, w.Close())

	entries := extractFile(t, fs, "/out.tar")
	assert.Equal(t, int64(946684800), find(t, entries, "./").ModTime)
	assert.Equal(t, int64(946684800), find(t, entries, "./portable").ModTime)
	assert.Equal(t, int64(42), find(t, entries, "./explicit").ModTime)
}

func TestWriter_AddLink(t *testing.T) {
	fs := newTestFs(t, nil)
	w := newTestWriter(t, fs, "/out.tar", DefaultConfig())

	require.NoError(t, w.AddLink("bin/sh", "/bin/busybox", Attributes{}))
	require.NoError(t, w.Close())

	link := find(t, extractFile(t, fs, "/out.tar"), "./bin/sh")
	assert.Equal(t, byte(tar.TypeSymlink), link.Typeflag)
	assert.Equal(t, "/bin/busybox", link.Linkname)
	assert.Equal(t, int64(0755), link.Mode)
}

func TestWriter_AddFile_DirectorySource(t *testing.T) {
	fs := newTestFs(t, map[string]string{"/src/tree/a.txt": "a"})
	w := newTestWriter(t, fs, "/out.tar", DefaultConfig())

	require.NoError(t, w.AddFile(Entry{Name: "tree", Source: "/src/tree"}))
	require.NoError(t, w.Close())

	assert.Equal(t, []string{"./", "./tree/", "./tree/a.txt"}, names(extractFile(t, fs, "/out.tar")))
}

func TestWriter_AddFile_MissingSource(t *testing.T) {
	fs := newTestFs(t, nil)
	w := newTestWriter(t, fs, "/out.tar", DefaultConfig())
	defer w.Close()

	err := w.AddFile(Entry{Name: "x", Source: "/src/missing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, w.members.Has("./x"))
}
