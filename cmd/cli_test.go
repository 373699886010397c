package cmd

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func TestRootFlagBindings(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	setRootFlags(flags)

	for _, b := range rootFlagBindings {
		assert.NotNil(t, flags.Lookup(b.flag), "no flag for config key %q", b.key)
	}
}

func TestRootFlags_Parse(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	setRootFlags(flags)

	err := flags.Parse([]string{
		"-o", "out.tar",
		"--file", "a=b",
		"--file", "c=d",
		"--root-uid", "1000",
		"--exclude", "**/*.pyc",
	})
	assert.NoError(t, err)

	files, err := flags.GetStringArray("file")
	assert.NoError(t, err)
	assert.Equal(t, []string{"a=b", "c=d"}, files)

	uid, err := flags.GetInt("root-uid")
	assert.NoError(t, err)
	assert.Equal(t, 1000, uid)

	gid, err := flags.GetInt("root-gid")
	assert.NoError(t, err)
	assert.Equal(t, -1, gid)
}
