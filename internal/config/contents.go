package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/anchore/reprotar/internal/stringutil"
)

// FileMapping places the file (or directory tree) at Source under the archive name Destination.
type FileMapping struct {
	Source      string
	Destination string
}

// LinkMapping is a symbolic link at Name pointing to Target.
type LinkMapping struct {
	Name   string
	Target string
}

// contents lists everything that goes into the archive.
type contents struct {
	Files      []string      `yaml:"files" json:"files" mapstructure:"files"`                   // --file src=dest
	FilesOpt   []FileMapping `yaml:"-" json:"-"`                                                // parsed Files
	Tars       []string      `yaml:"tars" json:"tars" mapstructure:"tars"`                      // --tar, archives whose entries are merged
	Links      []string      `yaml:"links" json:"links" mapstructure:"links"`                   // --link name:target
	LinksOpt   []LinkMapping `yaml:"-" json:"-"`                                                // parsed Links
	EmptyFiles []string      `yaml:"empty-files" json:"empty-files" mapstructure:"empty-files"` // --empty-file
	EmptyDirs  []string      `yaml:"empty-dirs" json:"empty-dirs" mapstructure:"empty-dirs"`    // --empty-dir
}

func (cfg contents) loadDefaultValues(v *viper.Viper) {
	v.SetDefault("contents.files", []string{})
	v.SetDefault("contents.tars", []string{})
	v.SetDefault("contents.links", []string{})
	v.SetDefault("contents.empty-files", []string{})
	v.SetDefault("contents.empty-dirs", []string{})
}

func (cfg *contents) parseConfigValues() error {
	cfg.FilesOpt = nil
	for _, f := range cfg.Files {
		mapping, err := parseFileMapping(f)
		if err != nil {
			return err
		}
		cfg.FilesOpt = append(cfg.FilesOpt, mapping)
	}

	cfg.LinksOpt = nil
	for _, l := range cfg.Links {
		mapping, err := parseLinkMapping(l)
		if err != nil {
			return err
		}
		cfg.LinksOpt = append(cfg.LinksOpt, mapping)
	}
	return nil
}

// parseFileMapping parses "src=dest". Without a destination the file keeps its source path.
func parseFileMapping(value string) (FileMapping, error) {
	fields := strings.SplitN(value, "=", 2)
	src, dest := fields[0], fields[0]
	if len(fields) == 2 {
		dest = fields[1]
	}
	if src == "" {
		return FileMapping{}, fmt.Errorf("bad file mapping %q: missing source", value)
	}
	if dest == "" {
		return FileMapping{}, fmt.Errorf("bad file mapping %q: missing destination", value)
	}
	return FileMapping{Source: src, Destination: dest}, nil
}

// parseLinkMapping parses "name:target".
func parseLinkMapping(value string) (LinkMapping, error) {
	name, target := stringutil.SplitOnFirstString(value, ":")
	if name == "" || target == "" {
		return LinkMapping{}, fmt.Errorf("bad link %q: expected name:target", value)
	}
	return LinkMapping{Name: name, Target: target}, nil
}
