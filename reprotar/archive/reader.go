package archive

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/anchore/reprotar/internal/log"
)

// EntryInfo is the metadata of one archive member, as stored in the archive.
type EntryInfo struct {
	Name     string
	Linkname string
	Typeflag byte
	Mode     int64
	UID      int
	GID      int
	UName    string
	GName    string
	Size     int64
	ModTime  int64
}

// ReadEntries lists every member of the archive at path in archive order. The compression is detected the same way
// as for AddTar.
func ReadEntries(fs afero.Fs, path string) ([]EntryInfo, error) {
	src, err := openTarSource(fs, path)
	if err != nil {
		return nil, err
	}
	defer log.CloseAndLogError(src, path)

	var entries []EntryInfo
	for {
		header, _, err := src.next()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return entries, fmt.Errorf("unable to read entry of %q: %w", path, err)
		}

		entries = append(entries, EntryInfo{
			Name:     header.Name,
			Linkname: header.Linkname,
			Typeflag: header.Typeflag,
			Mode:     header.Mode,
			UID:      header.Uid,
			GID:      header.Gid,
			UName:    header.Uname,
			GName:    header.Gname,
			Size:     header.Size,
			ModTime:  header.ModTime.Unix(),
		})
	}
}
