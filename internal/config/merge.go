package config

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v2"
	"github.com/spf13/viper"

	"github.com/anchore/reprotar/internal/stringutil"
	"github.com/anchore/reprotar/reprotar/archive"
)

const unsetID = -1

// merge holds the options applied to the entries of every --tar archive.
type merge struct {
	RootUID      int      `yaml:"root-uid" json:"root-uid" mapstructure:"root-uid"`                // --root-uid, this uid is rewritten to root
	RootGID      int      `yaml:"root-gid" json:"root-gid" mapstructure:"root-gid"`                // --root-gid, this gid is rewritten to root
	NumericOwner bool     `yaml:"numeric-owner" json:"numeric-owner" mapstructure:"numeric-owner"` // --numeric-owner, drop user and group names
	RelocateRoot string   `yaml:"relocate-root" json:"relocate-root" mapstructure:"relocate-root"` // --relocate-root, move relative entries under this directory
	Exclusions   []string `yaml:"exclude" json:"exclude" mapstructure:"exclude"`                   // --exclude, glob patterns of entries to leave out
}

func (cfg merge) loadDefaultValues(v *viper.Viper) {
	v.SetDefault("merge.root-uid", unsetID)
	v.SetDefault("merge.root-gid", unsetID)
	v.SetDefault("merge.numeric-owner", false)
	v.SetDefault("merge.relocate-root", "")
	v.SetDefault("merge.exclude", []string{})
}

func (cfg *merge) parseConfigValues() error {
	for _, pattern := range cfg.Exclusions {
		if _, err := doublestar.Match(pattern, pattern); err != nil {
			return fmt.Errorf("bad exclusion pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// Options converts the merge section into the options given to archive.Writer.AddTar.
func (cfg merge) Options() archive.MergeOptions {
	opts := archive.MergeOptions{
		Numeric: cfg.NumericOwner,
		Root:    cfg.RelocateRoot,
	}
	if cfg.RootUID != unsetID {
		uid := cfg.RootUID
		opts.RootUID = &uid
	}
	if cfg.RootGID != unsetID {
		gid := cfg.RootGID
		opts.RootGID = &gid
	}
	if len(cfg.Exclusions) > 0 {
		opts.NameFilter = cfg.keep
	}
	return opts
}

// keep reports whether a merged entry matches none of the exclusion patterns. Patterns are matched against the name
// without its leading "./" or "/".
func (cfg merge) keep(name string) bool {
	name = stringutil.TrimRootPrefix(name)
	for _, pattern := range cfg.Exclusions {
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return false
		}
	}
	return true
}
