package cmd

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/anchore/reprotar/internal/config"
)

var persistentOpts = config.CliOnlyOptions{}

// flagBinding ties a config key to the CLI flag that overrides it.
type flagBinding struct {
	key  string
	flag string
}

var rootFlagBindings = []flagBinding{
	{key: "output", flag: "output"},
	{key: "compression", flag: "compression"},
	{key: "root-directory", flag: "root-directory"},
	{key: "mtime", flag: "mtime"},
	{key: "preserve-mtime", flag: "preserve-mtime"},
	{key: "contents.files", flag: "file"},
	{key: "contents.tars", flag: "tar"},
	{key: "contents.links", flag: "link"},
	{key: "contents.empty-files", flag: "empty-file"},
	{key: "contents.empty-dirs", flag: "empty-dir"},
	{key: "attributes.mode", flag: "mode"},
	{key: "attributes.modes", flag: "modes"},
	{key: "attributes.owner", flag: "owner"},
	{key: "attributes.owners", flag: "owners"},
	{key: "attributes.owner-name", flag: "owner-name"},
	{key: "attributes.owner-names", flag: "owner-names"},
	{key: "merge.root-uid", flag: "root-uid"},
	{key: "merge.root-gid", flag: "root-gid"},
	{key: "merge.numeric-owner", flag: "numeric-owner"},
	{key: "merge.relocate-root", flag: "relocate-root"},
	{key: "merge.exclude", flag: "exclude"},
}

func setGlobalCliOptions(flags *pflag.FlagSet) {
	flags.StringVarP(&persistentOpts.ConfigPath, "config", "c", "", "application config file")
	flags.CountVarP(&persistentOpts.Verbosity, "verbose", "v", "increase verbosity (-v = info, -vv = debug)")
	flags.BoolP("quiet", "q", false, "suppress all logging output")
}

func bindGlobalConfigOptions(flags *pflag.FlagSet) error {
	if err := viper.BindPFlag("quiet", flags.Lookup("quiet")); err != nil {
		return err
	}
	return nil
}

func setRootFlags(flags *pflag.FlagSet) {
	// output options
	flags.StringP("output", "o", "", "the archive to write")
	flags.String("compression", "", "compression of the archive, one of [gz, bz2] (inferred from the output extension by default)")
	flags.String("root-directory", "./", "the directory relative entries are placed under")
	flags.String("mtime", "", `modification time of every entry, in seconds since the epoch or "portable"`)
	flags.Bool("preserve-mtime", false, "keep the modification times of the entries of merged archives")

	// contents
	flags.StringArray("file", nil, "add a file or directory tree, as src=dest (repeatable)")
	flags.StringArray("tar", nil, "merge the entries of an existing (optionally compressed) archive (repeatable)")
	flags.StringArray("link", nil, "add a symbolic link, as name:target (repeatable)")
	flags.StringArray("empty-file", nil, "add an empty file (repeatable)")
	flags.StringArray("empty-dir", nil, "add an empty directory (repeatable)")

	// attributes of added files
	flags.String("mode", "", "octal permission mode of added files (0644 by default, 0755 for directories)")
	flags.StringArray("modes", nil, "octal permission mode of a single entry, as path=mode (repeatable)")
	flags.String("owner", "0.0", "numeric owner of added files, as uid.gid")
	flags.StringArray("owners", nil, "numeric owner of a single entry, as path=uid.gid (repeatable)")
	flags.String("owner-name", "", "owner name of added files, as user.group")
	flags.StringArray("owner-names", nil, "owner name of a single entry, as path=user.group (repeatable)")

	// merged archives
	flags.Int("root-uid", -1, "user id of merged entries that is mapped to root")
	flags.Int("root-gid", -1, "group id of merged entries that is mapped to root")
	flags.Bool("numeric-owner", false, "drop the user and group names of merged entries")
	flags.String("relocate-root", "", "move the relative entries of merged archives under this directory")
	flags.StringArray("exclude", nil, "leave out merged entries matching this glob pattern (repeatable)")
}

func bindRootConfigOptions(flags *pflag.FlagSet) error {
	for _, b := range rootFlagBindings {
		flag := flags.Lookup(b.flag)
		if flag == nil {
			return fmt.Errorf("unable to bind config key %q: no flag %q", b.key, b.flag)
		}
		if err := viper.BindPFlag(b.key, flag); err != nil {
			return fmt.Errorf("unable to bind flag %q: %w", b.flag, err)
		}
	}
	return nil
}
