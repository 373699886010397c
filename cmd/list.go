package cmd

import (
	"archive/tar"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/anchore/reprotar/reprotar/archive"
)

var listCmd = &cobra.Command{
	Use:   "list ARCHIVE",
	Short: "List the entries of an archive with the metadata stored for each of them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listArchive(cmd.OutOrStdout(), afero.NewOsFs(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func listArchive(out io.Writer, fs afero.Fs, path string) error {
	entries, err := archive.ReadEntries(fs, path)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		_, err := io.WriteString(out, "No entries found\n")
		return err
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Mode", "Ids", "Owner", "Size", "Modified", "Name"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetAutoFormatHeaders(true)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, entryRow(e))
	}
	table.AppendBulk(rows)
	table.Render()

	return nil
}

func entryRow(e archive.EntryInfo) []string {
	header := tar.Header{Typeflag: e.Typeflag, Mode: e.Mode}

	var owner string
	if e.UName != "" || e.GName != "" {
		owner = fmt.Sprintf("%s/%s", e.UName, e.GName)
	}

	name := e.Name
	switch e.Typeflag {
	case tar.TypeSymlink:
		name = fmt.Sprintf("%s -> %s", e.Name, e.Linkname)
	case tar.TypeLink:
		name = fmt.Sprintf("%s link to %s", e.Name, e.Linkname)
	}

	return []string{
		header.FileInfo().Mode().String(),
		fmt.Sprintf("%d/%d", e.UID, e.GID),
		owner,
		strconv.FormatInt(e.Size, 10),
		time.Unix(e.ModTime, 0).UTC().Format(time.RFC3339),
		name,
	}
}
