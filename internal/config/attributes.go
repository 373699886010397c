package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/anchore/reprotar/internal/stringutil"
	"github.com/anchore/reprotar/reprotar/archive"
)

// Owner is a numeric "uid.gid" pair.
type Owner struct {
	UID int
	GID int
}

// OwnerName is a "user.group" pair.
type OwnerName struct {
	User  string
	Group string
}

// attributes are the permission and ownership values applied to added files, by default or per archive path.
type attributes struct {
	Mode          string               `yaml:"mode" json:"mode" mapstructure:"mode"`                      // --mode, octal
	ModeOpt       int64                `yaml:"-" json:"-"`                                                // parsed Mode
	Modes         []string             `yaml:"modes" json:"modes" mapstructure:"modes"`                   // --modes path=mode
	ModesOpt      map[string]int64     `yaml:"-" json:"-"`                                                // parsed Modes
	Owner         string               `yaml:"owner" json:"owner" mapstructure:"owner"`                   // --owner uid.gid
	OwnerOpt      Owner                `yaml:"-" json:"-"`                                                // parsed Owner
	Owners        []string             `yaml:"owners" json:"owners" mapstructure:"owners"`                // --owners path=uid.gid
	OwnersOpt     map[string]Owner     `yaml:"-" json:"-"`                                                // parsed Owners
	OwnerName     string               `yaml:"owner-name" json:"owner-name" mapstructure:"owner-name"`    // --owner-name user.group
	OwnerNameOpt  OwnerName            `yaml:"-" json:"-"`                                                // parsed OwnerName
	OwnerNames    []string             `yaml:"owner-names" json:"owner-names" mapstructure:"owner-names"` // --owner-names path=user.group
	OwnerNamesOpt map[string]OwnerName `yaml:"-" json:"-"`                                                // parsed OwnerNames
}

func (cfg attributes) loadDefaultValues(v *viper.Viper) {
	v.SetDefault("attributes.mode", "")
	v.SetDefault("attributes.modes", []string{})
	v.SetDefault("attributes.owner", "0.0")
	v.SetDefault("attributes.owners", []string{})
	v.SetDefault("attributes.owner-name", "")
	v.SetDefault("attributes.owner-names", []string{})
}

func (cfg *attributes) parseConfigValues() error {
	var err error
	if cfg.ModeOpt, err = parseMode(cfg.Mode); err != nil {
		return err
	}
	if cfg.OwnerOpt, err = parseOwner(cfg.Owner); err != nil {
		return err
	}
	cfg.OwnerNameOpt = parseOwnerName(cfg.OwnerName)

	cfg.ModesOpt = make(map[string]int64)
	for _, value := range cfg.Modes {
		p, mode, err := splitPathValue(value)
		if err != nil {
			return err
		}
		if cfg.ModesOpt[p], err = parseMode(mode); err != nil {
			return err
		}
	}

	cfg.OwnersOpt = make(map[string]Owner)
	for _, value := range cfg.Owners {
		p, owner, err := splitPathValue(value)
		if err != nil {
			return err
		}
		if cfg.OwnersOpt[p], err = parseOwner(owner); err != nil {
			return err
		}
	}

	cfg.OwnerNamesOpt = make(map[string]OwnerName)
	for _, value := range cfg.OwnerNames {
		p, name, err := splitPathValue(value)
		if err != nil {
			return err
		}
		cfg.OwnerNamesOpt[p] = parseOwnerName(name)
	}
	return nil
}

// For resolves the attributes of the entry added at the given archive path. Per path values win over the defaults.
func (cfg attributes) For(name string) archive.Attributes {
	key := stringutil.TrimRootPrefix(name)

	mode, ok := cfg.ModesOpt[key]
	if !ok {
		mode = cfg.ModeOpt
	}
	owner, ok := cfg.OwnersOpt[key]
	if !ok {
		owner = cfg.OwnerOpt
	}
	ownerName, ok := cfg.OwnerNamesOpt[key]
	if !ok {
		ownerName = cfg.OwnerNameOpt
	}

	return archive.Attributes{
		UID:   owner.UID,
		GID:   owner.GID,
		UName: ownerName.User,
		GName: ownerName.Group,
		Mode:  mode,
	}
}

// splitPathValue splits "path=value", where the path is the archive path of the entry.
func splitPathValue(value string) (string, string, error) {
	idx := strings.LastIndex(value, "=")
	if idx <= 0 {
		return "", "", fmt.Errorf("bad value %q: expected path=value", value)
	}
	return stringutil.TrimRootPrefix(value[:idx]), value[idx+1:], nil
}

// parseMode parses an octal permission mode, the empty string means no mode.
func parseMode(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	mode, err := strconv.ParseInt(value, 8, 64)
	if err != nil || mode < 0 || mode > 07777 {
		return 0, fmt.Errorf("bad mode %q: expected an octal permission mode", value)
	}
	return mode, nil
}

func parseOwner(value string) (Owner, error) {
	fields := strings.Split(value, ".")
	if len(fields) != 2 {
		return Owner{}, fmt.Errorf("bad owner %q: expected uid.gid", value)
	}
	uid, err := strconv.Atoi(fields[0])
	if err != nil {
		return Owner{}, fmt.Errorf("bad owner %q: %w", value, err)
	}
	gid, err := strconv.Atoi(fields[1])
	if err != nil {
		return Owner{}, fmt.Errorf("bad owner %q: %w", value, err)
	}
	return Owner{UID: uid, GID: gid}, nil
}

// parseOwnerName parses "user.group", either side may be empty.
func parseOwnerName(value string) OwnerName {
	fields := strings.SplitN(value, ".", 2)
	if len(fields) == 1 {
		return OwnerName{User: fields[0]}
	}
	return OwnerName{User: fields[0], Group: fields[1]}
}
