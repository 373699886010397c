package archive

import (
	"archive/tar"
	"time"
)

const (
	defaultFileMode int64 = 0644
	defaultDirMode  int64 = 0755
)

// Attributes are the ownership, permission and time overrides applied to an entry.
type Attributes struct {
	UID   int
	GID   int
	UName string
	GName string
	// Mode is the permission mode, zero selects 0644 for regular files and 0755 for everything else.
	Mode int64
	// ModTime is the modification time, the zero value selects the writer default.
	ModTime time.Time
}

// Entry describes a single item to add to the archive.
type Entry struct {
	Name string
	// Typeflag is one of the tar.Type* flags, zero is treated as tar.TypeReg.
	Typeflag byte
	// Linkname is the target of a symlink or hardlink.
	Linkname string
	// Source is the path of the file providing the content. A directory is added recursively.
	Source string
	Attributes
}

func (e Entry) typeflag() byte {
	if e.Typeflag == 0 {
		return tar.TypeReg
	}
	return e.Typeflag
}

// withModTime fills in the modification time when none was given.
func (a Attributes) withModTime(defaultModTime int64) Attributes {
	if a.ModTime.IsZero() {
		a.ModTime = time.Unix(defaultModTime, 0)
	}
	return a
}

// normalize resolves the attributes to the concrete values embedded in the header of an entry of the given type.
func (a Attributes) normalize(typeflag byte, defaultModTime int64) Attributes {
	a = a.withModTime(defaultModTime)
	if a.Mode == 0 {
		a.Mode = defaultDirMode
		if typeflag == tar.TypeReg {
			a.Mode = defaultFileMode
		}
	}
	return a
}

// directoryMode derives a directory mode from a file mode by adding the execute bit wherever the read bit is set.
func directoryMode(mode int64) int64 {
	if mode == 0 {
		return 0
	}
	return mode | (mode&0444)>>2
}

func (a Attributes) header(name string, typeflag byte, linkname string) *tar.Header {
	return &tar.Header{
		Name:     name,
		Typeflag: typeflag,
		Linkname: linkname,
		Mode:     a.Mode,
		Uid:      a.UID,
		Gid:      a.GID,
		Uname:    a.UName,
		Gname:    a.GName,
		ModTime:  a.ModTime,
	}
}
