package archive

import (
	"archive/tar"
	"strings"

	"github.com/spf13/afero"

	"github.com/anchore/reprotar/internal/log"
	"github.com/anchore/reprotar/internal/stringutil"
)

// AddFile adds a single entry, creating a directory entry (mode 0755) for every missing ancestor of its name.
// When the entry source is a directory the whole tree is added (see AddDir).
func (w *Writer) AddFile(entry Entry) error {
	if entry.Source != "" {
		isDir, err := afero.DirExists(w.fs, entry.Source)
		if err != nil {
			return err
		}
		if isDir {
			return w.AddDir(entry.Name, entry.Source, entry.Attributes, DefaultMaxDepth)
		}
	}

	typeflag := entry.typeflag()
	name := w.rooted(entry.Name)
	if typeflag == tar.TypeDir {
		name = strings.TrimRight(name, "/")
		if w.directories.Has(name) {
			return nil
		}
	}

	attrs := entry.Attributes.withModTime(w.defaultModTime)

	if parent := parentDir(name); parent != "" {
		parentAttrs := attrs
		parentAttrs.Mode = defaultDirMode
		if err := w.AddFile(Entry{Name: parent, Typeflag: tar.TypeDir, Attributes: parentAttrs}); err != nil {
			return err
		}
	}

	header := attrs.normalize(typeflag, w.defaultModTime).header(name, typeflag, entry.Linkname)

	if entry.Source != "" {
		return w.addFileContent(header, entry.Source)
	}

	if err := w.addEntry(header, nil); err != nil {
		return err
	}
	if typeflag == tar.TypeDir {
		w.directories.Add(name)
	}
	return nil
}

func (w *Writer) addFileContent(header *tar.Header, source string) error {
	f, err := w.fs.Open(source)
	if err != nil {
		return err
	}
	defer log.CloseAndLogError(f, source)

	info, err := f.Stat()
	if err != nil {
		return err
	}
	header.Size = info.Size()

	log.Debugf("adding file=%q to archive as %q", source, header.Name)
	return w.addEntry(header, f)
}

// AddLink adds a symbolic link pointing at target.
func (w *Writer) AddLink(name, target string, attrs Attributes) error {
	return w.AddFile(Entry{Name: name, Typeflag: tar.TypeSymlink, Linkname: target, Attributes: attrs})
}

// AddEmptyFile adds a zero-length regular file.
func (w *Writer) AddEmptyFile(name string, attrs Attributes) error {
	return w.AddFile(Entry{Name: name, Typeflag: tar.TypeReg, Attributes: attrs})
}

// AddEmptyDir adds a directory entry without any content.
func (w *Writer) AddEmptyDir(name string, attrs Attributes) error {
	return w.AddFile(Entry{Name: name, Typeflag: tar.TypeDir, Attributes: attrs})
}

// rooted places name under the root directory unless it is absolute or already there.
func (w *Writer) rooted(name string) string {
	root := w.rootDirectory
	if root == "" || name == root || stringutil.HasAnyOfPrefixes(name, "/", root+"/") {
		return name
	}
	return root + "/" + name
}

// parentDir returns everything before the last separator, or "" when the name has no parent to synthesize.
func parentDir(name string) string {
	idx := strings.LastIndex(name, "/")
	if idx <= 0 {
		return ""
	}
	return name[:idx]
}
