package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/anchore/reprotar/internal/config"
	"github.com/anchore/reprotar/internal/file"
	"github.com/anchore/reprotar/internal/log"
	"github.com/anchore/reprotar/reprotar/archive"
)

// summary describes a finished archive.
type summary struct {
	Path       string
	Entries    int
	Size       int64
	Digest     string
	Duplicates []string
}

func (s summary) log() {
	log.Infof("wrote %s: %d entries, %s (%s)", s.Path, s.Entries, humanize.Bytes(uint64(s.Size)), s.Digest)
	if len(s.Duplicates) > 0 {
		log.Warnf("skipped %d duplicate entries (the first occurrence of each name was kept)", len(s.Duplicates))
	}
}

// buildArchive writes the archive described by the application config. Contents are added in a fixed order: files,
// empty files, empty directories, links and finally merged archives.
func buildArchive(app *config.Application, fs afero.Fs) (*summary, error) {
	cfg := app.ArchiveConfig()
	cfg.Fs = fs

	w, err := archive.NewWriter(app.Output, cfg)
	if err != nil {
		return nil, err
	}

	if err := addContents(w, app); err != nil {
		if closeErr := w.Close(); closeErr != nil {
			log.Debugf("unable to close archive after failure: %+v", closeErr)
		}
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	digest, err := file.Digest(fs, app.Output)
	if err != nil {
		return nil, err
	}

	return &summary{
		Path:       app.Output,
		Entries:    w.Entries(),
		Size:       w.BytesWritten(),
		Digest:     digest,
		Duplicates: w.Duplicates(),
	}, nil
}

func addContents(w *archive.Writer, app *config.Application) error {
	attrs := app.Attributes

	for _, f := range app.Contents.FilesOpt {
		entry := archive.Entry{Name: f.Destination, Source: f.Source, Attributes: attrs.For(f.Destination)}
		if err := w.AddFile(entry); err != nil {
			return fmt.Errorf("unable to add %q: %w", f.Source, err)
		}
	}

	for _, name := range app.Contents.EmptyFiles {
		if err := w.AddEmptyFile(name, attrs.For(name)); err != nil {
			return fmt.Errorf("unable to add empty file %q: %w", name, err)
		}
	}

	for _, name := range app.Contents.EmptyDirs {
		if err := w.AddEmptyDir(name, attrs.For(name)); err != nil {
			return fmt.Errorf("unable to add empty directory %q: %w", name, err)
		}
	}

	for _, l := range app.Contents.LinksOpt {
		if err := w.AddLink(l.Name, l.Target, attrs.For(l.Name)); err != nil {
			return fmt.Errorf("unable to add link %q: %w", l.Name, err)
		}
	}

	opts := app.Merge.Options()
	for _, path := range app.Contents.Tars {
		if err := w.AddTar(path, opts); err != nil {
			return err
		}
	}
	return nil
}
