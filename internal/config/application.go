package config

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"strings"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/anchore/reprotar/internal"
	"github.com/anchore/reprotar/reprotar/archive"
)

var ErrApplicationConfigNotFound = fmt.Errorf("application config not found")

type defaultValueLoader interface {
	loadDefaultValues(*viper.Viper)
}

type parser interface {
	parseConfigValues() error
}

// CliOnlyOptions are options that can only be given on the command line (never from a config file or environment).
type CliOnlyOptions struct {
	ConfigPath string
	Verbosity  int
}

type Application struct {
	ConfigPath     string              `yaml:",omitempty" json:"configPath"` // the location where the application config was read from (either from -c or discovered while loading)
	Verbosity      uint                `yaml:"verbosity,omitempty" json:"verbosity" mapstructure:"verbosity"`
	Output         string              `yaml:"output" json:"output" mapstructure:"output"`                         // -o, the archive to write
	Compression    string              `yaml:"compression" json:"compression" mapstructure:"compression"`          // --compression, inferred from the output extension when empty
	CompressionOpt archive.Compression `yaml:"-" json:"-"`                                                         // parsed Compression
	RootDirectory  string              `yaml:"root-directory" json:"root-directory" mapstructure:"root-directory"` // --root-directory, the directory relative entries are placed under
	ModTime        string              `yaml:"mtime" json:"mtime" mapstructure:"mtime"`                            // --mtime, seconds since the epoch or "portable"
	ModTimeOpt     int64               `yaml:"-" json:"-"`                                                         // parsed ModTime
	PreserveMTime  bool                `yaml:"preserve-mtime" json:"preserve-mtime" mapstructure:"preserve-mtime"` // --preserve-mtime, keep the times of merged archive entries
	Quiet          bool                `yaml:"quiet" json:"quiet" mapstructure:"quiet"`                            // -q, indicates to not show any logging output to stderr
	CliOptions     CliOnlyOptions      `yaml:"-" json:"-"`
	Contents       contents            `yaml:"contents" json:"contents" mapstructure:"contents"`
	Attributes     attributes          `yaml:"attributes" json:"attributes" mapstructure:"attributes"`
	Merge          merge               `yaml:"merge" json:"merge" mapstructure:"merge"`
	Log            logging             `yaml:"log" json:"log" mapstructure:"log"`
	Dev            development         `yaml:"dev" json:"dev" mapstructure:"dev"`
}

func newApplicationConfig(v *viper.Viper, cliOpts CliOnlyOptions) *Application {
	config := &Application{
		CliOptions: cliOpts,
	}
	config.loadDefaultValues(v)

	return config
}

func LoadApplicationConfig(v *viper.Viper, cliOpts CliOnlyOptions) (*Application, error) {
	// the user may not have a config, and this is OK, we can use the default config + default cobra cli values instead
	config := newApplicationConfig(v, cliOpts)

	if err := readConfig(v, cliOpts.ConfigPath); err != nil && !errors.Is(err, ErrApplicationConfigNotFound) {
		return nil, err
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}
	config.ConfigPath = v.ConfigFileUsed()

	if err := config.parseConfigValues(); err != nil {
		return nil, fmt.Errorf("invalid application config: %w", err)
	}

	return config, nil
}

// loadDefaultValues loads the default configuration values into the viper instance (before the config values are read and parsed).
func (cfg Application) loadDefaultValues(v *viper.Viper) {
	v.SetDefault("output", "")
	v.SetDefault("compression", "")
	v.SetDefault("root-directory", archive.DefaultConfig().RootDirectory)
	v.SetDefault("mtime", "")
	v.SetDefault("preserve-mtime", false)

	// for each field in the configuration struct, see if the field implements the defaultValueLoader interface and invoke it if it does
	value := reflect.ValueOf(cfg)
	for i := 0; i < value.NumField(); i++ {
		// note: the defaultValueLoader method receiver is NOT a pointer receiver.
		if loadable, ok := value.Field(i).Interface().(defaultValueLoader); ok {
			loadable.loadDefaultValues(v)
		}
	}
}

func (cfg *Application) parseConfigValues() error {
	for _, optionFn := range []func() error{
		cfg.parseLogLevelOption,
		cfg.parseCompressionOption,
		cfg.parseModTimeOption,
	} {
		if err := optionFn(); err != nil {
			return err
		}
	}

	// parse nested config options
	// note: the app config is a pointer, so we need to grab the elements explicitly (to traverse the address)
	value := reflect.ValueOf(cfg).Elem()
	for i := 0; i < value.NumField(); i++ {
		// note: since the interface method of parser is a pointer receiver we need to get the value of the field as a pointer.
		if parsable, ok := value.Field(i).Addr().Interface().(parser); ok {
			if err := parsable.parseConfigValues(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (cfg *Application) parseLogLevelOption() error {
	switch {
	case cfg.Quiet:
		// TODO: quiet trumps file logging too, it should only silence the console
		cfg.Log.LevelOpt = logrus.PanicLevel

	case cfg.CliOptions.Verbosity > 0:
		cfg.Log.LevelOpt = levelFromVerbosity(cfg.CliOptions.Verbosity)

	case cfg.Log.Level != "":
		var err error
		cfg.Log.LevelOpt, err = logrus.ParseLevel(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("bad log level %q: %w", cfg.Log.Level, err)
		}

		if cfg.Log.LevelOpt >= logrus.InfoLevel {
			cfg.Verbosity = 1
		}
	default:
		cfg.Log.LevelOpt = logrus.WarnLevel
	}

	return nil
}

func levelFromVerbosity(verbosity int) logrus.Level {
	switch {
	case verbosity >= 3:
		return logrus.TraceLevel
	case verbosity == 2:
		return logrus.DebugLevel
	case verbosity == 1:
		return logrus.InfoLevel
	}
	return logrus.WarnLevel
}

func (cfg *Application) parseCompressionOption() error {
	if cfg.Compression == "" {
		cfg.CompressionOpt = archive.CompressionFromPath(cfg.Output)
		return nil
	}

	var err error
	cfg.CompressionOpt, err = archive.ParseCompression(cfg.Compression)
	return err
}

func (cfg *Application) parseModTimeOption() error {
	var err error
	cfg.ModTimeOpt, err = archive.ParseModTime(cfg.ModTime)
	if err != nil {
		return fmt.Errorf("bad --mtime value %q: %w", cfg.ModTime, err)
	}
	return nil
}

// ArchiveConfig is the writer configuration described by the application config.
func (cfg Application) ArchiveConfig() archive.Config {
	return archive.Config{
		Compression:         cfg.CompressionOpt,
		RootDirectory:       cfg.RootDirectory,
		DefaultModTime:      cfg.ModTimeOpt,
		PreserveMergedTimes: cfg.PreserveMTime,
	}
}

func (cfg Application) String() string {
	// yaml is pretty human friendly (at least when compared to json)
	appCfgStr, err := yaml.Marshal(&cfg)

	if err != nil {
		return err.Error()
	}

	return string(appCfgStr)
}

// readConfig attempts to read the given config path from disk or discover an alternate store location
func readConfig(v *viper.Viper, configPath string) error {
	var err error
	v.AutomaticEnv()
	v.SetEnvPrefix(internal.ApplicationName)
	// allow for nested options to be specified via environment variables
	// e.g. merge.root-uid = REPROTAR_MERGE_ROOT_UID
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// use explicitly the given user config
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read application config=%q : %w", configPath, err)
		}
		// don't fall through to other options if the config path was explicitly provided
		return nil
	}

	// start searching for valid configs in order...

	// 1. look for .<appname>.yaml (in the current directory)
	v.AddConfigPath(".")
	v.SetConfigName("." + internal.ApplicationName)
	if err = v.ReadInConfig(); err == nil {
		return nil
	} else if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return fmt.Errorf("unable to parse config=%q: %w", v.ConfigFileUsed(), err)
	}

	// 2. look for .<appname>/config.yaml (in the current directory)
	v.AddConfigPath("." + internal.ApplicationName)
	v.SetConfigName("config")
	if err = v.ReadInConfig(); err == nil {
		return nil
	} else if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return fmt.Errorf("unable to parse config=%q: %w", v.ConfigFileUsed(), err)
	}

	// 3. look for ~/.<appname>.yaml
	home, err := homedir.Dir()
	if err == nil {
		v.AddConfigPath(home)
		v.SetConfigName("." + internal.ApplicationName)
		if err = v.ReadInConfig(); err == nil {
			return nil
		} else if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return fmt.Errorf("unable to parse config=%q: %w", v.ConfigFileUsed(), err)
		}
	}

	// 4. look for <appname>/config.yaml in xdg locations (starting with xdg home config dir, then moving upwards)
	v.AddConfigPath(path.Join(xdg.ConfigHome, internal.ApplicationName))
	for _, dir := range xdg.ConfigDirs {
		v.AddConfigPath(path.Join(dir, internal.ApplicationName))
	}
	v.SetConfigName("config")
	if err = v.ReadInConfig(); err == nil {
		return nil
	} else if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return fmt.Errorf("unable to parse config=%q: %w", v.ConfigFileUsed(), err)
	}

	return ErrApplicationConfigNotFound
}
