package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileMapping(t *testing.T) {
	tests := []struct {
		value   string
		want    FileMapping
		wantErr require.ErrorAssertionFunc
	}{
		{value: "src/a.txt=a.txt", want: FileMapping{Source: "src/a.txt", Destination: "a.txt"}, wantErr: require.NoError},
		{value: "src/a.txt", want: FileMapping{Source: "src/a.txt", Destination: "src/a.txt"}, wantErr: require.NoError},
		{value: "src/a=b=c", want: FileMapping{Source: "src/a", Destination: "b=c"}, wantErr: require.NoError},
		{value: "=a.txt", wantErr: require.Error},
		{value: "src/a.txt=", wantErr: require.Error},
		{value: "", wantErr: require.Error},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseFileMapping(tt.value)
			tt.wantErr(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLinkMapping(t *testing.T) {
	tests := []struct {
		value   string
		want    LinkMapping
		wantErr require.ErrorAssertionFunc
	}{
		{value: "bin/sh:/bin/busybox", want: LinkMapping{Name: "bin/sh", Target: "/bin/busybox"}, wantErr: require.NoError},
		{value: "lib/current:../lib/v1", want: LinkMapping{Name: "lib/current", Target: "../lib/v1"}, wantErr: require.NoError},
		{value: "bin/sh", wantErr: require.Error},
		{value: ":/bin/busybox", wantErr: require.Error},
		{value: "bin/sh:", wantErr: require.Error},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseLinkMapping(tt.value)
			tt.wantErr(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
