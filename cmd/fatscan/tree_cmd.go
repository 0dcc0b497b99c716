package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/aligator/fatscan"
	"github.com/aligator/fatscan/internal/config"
	"github.com/spf13/cobra"
)

// Tree command flags
var startCluster uint32

// treeResult is the document written for --format yaml.
type treeResult struct {
	Geometry fatscan.Geometry `json:"geometry" yaml:"geometry"`
	Entries  []fatscan.Entry  `json:"entries" yaml:"entries"`
}

// createTreeCommand creates the tree subcommand
func createTreeCommand() *cobra.Command {
	treeCmd := &cobra.Command{
		Use:   "tree [flags] IMAGE_FILE",
		Short: "lists all directory records of an image",
		Long: `Tree walks the directory tree starting at the root directory, or at
the cluster given by --cluster, and lists every record. Each directory
record is followed by the records of the directory it points to.

With --format json the geometry is written first, followed by one JSON
object per record and line.`,
		Args: cobra.ExactArgs(1),
		RunE: executeTree,
	}

	treeCmd.Flags().Uint32Var(&startCluster, "cluster", 0,
		"First cluster of the directory to start at (default: root directory)")

	return treeCmd
}

func executeTree(cmd *cobra.Command, args []string) error {
	img, file, err := openImage(cmd, args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	var entries []fatscan.Entry
	if cmd.Flags().Changed("cluster") {
		entries, err = img.Walk(startCluster)
	} else {
		entries, err = img.WalkRoot()
	}
	if err != nil {
		return fmt.Errorf("walk directories: %w", err)
	}

	result := treeResult{Geometry: img.Geometry(), Entries: entries}

	// JSON is streamed as one record per line.
	if settings.Format == config.FormatJSON {
		out := cmd.OutOrStdout()
		if err := writeJSON(out, result.Geometry, settings.Pretty); err != nil {
			return err
		}
		for _, entry := range entries {
			if err := writeJSON(out, entry, false); err != nil {
				return err
			}
		}
		return nil
	}

	return writeResult(cmd, result, func(w io.Writer) error {
		return printTree(w, result)
	})
}

func printTree(w io.Writer, result treeResult) error {
	if _, err := fmt.Fprintf(w, "%s\n\n", result.Geometry); err != nil {
		return err
	}

	for _, entry := range result.Entries {
		if _, err := fmt.Fprintln(w, formatEntry(entry)); err != nil {
			return err
		}
	}
	return nil
}

// formatEntry renders one record as a single line similar to ls -l.
func formatEntry(entry fatscan.Entry) string {
	info := entry.FileInfo()

	var flags strings.Builder
	flags.WriteString(info.Mode().String())
	if entry.Deleted {
		flags.WriteString(" deleted")
	}

	modTime := "-"
	if !info.ModTime().IsZero() {
		modTime = info.ModTime().Format("2006-01-02 15:04:05")
	}

	line := fmt.Sprintf("%4d %-5s %-20s %10d %19s %s", entry.Index, entry.Type, flags.String(), info.Size(), modTime, entry.Path())
	if entry.LongName != "" && entry.Type != fatscan.TypeLongName {
		line += fmt.Sprintf(" (%s)", entry.LongName)
	}

	if file := entry.File; file != nil {
		line += fmt.Sprintf("\n     cluster %d, sectors %v\n     content %s", file.ContentCluster, file.ContentSectors, file.Content)
		if file.SlackAvailable {
			line += fmt.Sprintf("\n     slack %s", file.Slack)
		} else {
			line += "\n     slack not available"
		}
	}
	return line
}
