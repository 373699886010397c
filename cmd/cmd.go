package cmd

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anchore/reprotar/internal"
	"github.com/anchore/reprotar/internal/config"
	"github.com/anchore/reprotar/internal/log"
	"github.com/anchore/reprotar/internal/logger"
	"github.com/anchore/reprotar/internal/version"
	"github.com/anchore/reprotar/reprotar"
)

var appConfig *config.Application

func init() {
	cobra.OnInitialize(
		initRootCmdConfigOptions,
		initAppConfig,
		initLogging,
		logAppConfig,
		logAppVersion,
	)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_ = stderrPrintLnf("%+v", err)
		os.Exit(1)
	}
}

func initRootCmdConfigOptions() {
	if err := bindGlobalConfigOptions(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	if err := bindRootConfigOptions(rootCmd.Flags()); err != nil {
		panic(err)
	}
}

func initAppConfig() {
	cfg, err := config.LoadApplicationConfig(viper.GetViper(), persistentOpts)
	if err != nil {
		fmt.Printf("failed to load application config: \n\t%+v\n", err)
		os.Exit(1)
	}
	appConfig = cfg
}

func initLogging() {
	cfg := logger.LogrusConfig{
		EnableConsole: (appConfig.Log.FileLocation == "" || appConfig.CliOptions.Verbosity > 0) && !appConfig.Quiet,
		EnableFile:    appConfig.Log.FileLocation != "",
		Level:         appConfig.Log.LevelOpt,
		Structured:    appConfig.Log.Structured,
		FileLocation:  appConfig.Log.FileLocation,
	}

	logWrapper, err := logger.NewLogrusLogger(cfg)
	if err != nil {
		fmt.Printf("failed to setup logging: \n\t%+v\n", err)
		os.Exit(1)
	}

	reprotar.SetLogger(logWrapper)
}

func logAppConfig() {
	log.Debugf("application config:\n%+v", color.Magenta.Sprint(appConfig.String()))
}

func logAppVersion() {
	info := version.FromBuild()
	log.Infof("%s version: %s", internal.ApplicationName, info.Version)

	fields := []struct {
		name  string
		value string
	}{
		{"buildDate", info.BuildDate},
		{"compiler", info.Compiler},
		{"gitCommit", info.GitCommit},
		{"gitDescription", info.GitDescription},
		{"goVersion", info.GoVersion},
		{"platform", info.Platform},
	}

	for idx, f := range fields {
		branch := "├──"
		if idx == len(fields)-1 {
			branch = "└──"
		}
		log.Debugf("  %s %s: %s", branch, f.name, f.value)
	}
}
