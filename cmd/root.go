package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/anchore/reprotar/internal"
	"github.com/anchore/reprotar/internal/log"
	"github.com/anchore/reprotar/internal/stringutil"
)

var rootCmd = &cobra.Command{
	Use:   fmt.Sprintf("%s -o ARCHIVE [flags]", internal.ApplicationName),
	Short: "Build byte for byte reproducible tar archives",
	Long: stringutil.Tprintf(`Builds a tar archive with normalized metadata: fixed modification times, explicit
ownership and permissions, and entries written in a stable order. The same inputs always produce the same archive.

Examples:
    {{.appName}} -o layer.tar --file build/app=bin/app --mtime portable
    {{.appName}} -o layer.tar.gz --file rootfs=/ --owner 1000.1000 --owner-name app.app
    {{.appName}} -o merged.tar --tar base.tar.bz2 --tar app.tgz --relocate-root /opt/app --root-uid 1000
`, map[string]interface{}{
		"appName": internal.ApplicationName,
	}),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runArchiveCmd()
	},
}

func init() {
	setGlobalCliOptions(rootCmd.PersistentFlags())
	setRootFlags(rootCmd.Flags())
}

func runArchiveCmd() error {
	if appConfig.Output == "" {
		return errors.New("an output archive is required (--output)")
	}

	// interrupts are handled below
	if appConfig.Dev.ProfileCPU {
		defer profile.Start(profile.CPUProfile, profile.NoShutdownHook).Stop()
	} else if appConfig.Dev.ProfileMem {
		defer profile.Start(profile.MemProfile, profile.NoShutdownHook).Stop()
	}

	interrupts, stop := notifyInterrupts()
	defer stop()

	fs := afero.NewOsFs()
	result := make(chan error, 1)
	go func() {
		s, err := buildArchive(appConfig, fs)
		if err == nil {
			s.log()
		}
		result <- err
	}()

	select {
	case err := <-result:
		if err != nil {
			removePartialArchive(fs, appConfig.Output)
		}
		return err
	case sig := <-interrupts:
		removePartialArchive(fs, appConfig.Output)
		return fmt.Errorf("interrupted (%s)", sig)
	}
}

func removePartialArchive(fs afero.Fs, path string) {
	if err := fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("unable to remove partial archive %q: %+v", path, err)
	}
}
