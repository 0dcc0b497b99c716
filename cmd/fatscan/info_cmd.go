package main

import (
	"fmt"
	"io"

	"github.com/aligator/fatscan"
	"github.com/spf13/cobra"
)

// createInfoCommand creates the info subcommand
func createInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [flags] IMAGE_FILE",
		Short: "shows the boot parameters of an image",
		Long: `Info decodes the boot sector of a FAT32 image and shows the
geometry derived from it: sector and cluster sizes, the location of the
first FAT and the start and end of the data region.`,
		Args: cobra.ExactArgs(1),
		RunE: executeInfo,
	}
}

func executeInfo(cmd *cobra.Command, args []string) error {
	img, file, err := openImage(cmd, args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	geometry := img.Geometry()
	return writeResult(cmd, geometry, func(w io.Writer) error {
		return printGeometry(w, geometry)
	})
}

func printGeometry(w io.Writer, g fatscan.Geometry) error {
	rows := []struct {
		name  string
		value interface{}
	}{
		{"Bytes per sector", g.BytesPerSector},
		{"Sectors per cluster", g.SectorsPerCluster},
		{"Bytes per cluster", g.BytesPerCluster},
		{"Reserved sectors", g.ReservedSectors},
		{"Number of FATs", g.NumberOfFATs},
		{"Sectors per FAT", g.SectorsPerFAT},
		{"Total sectors", g.TotalSectors},
		{"Root directory cluster", g.RootDirFirstCluster},
		{"FAT 0 sectors", fmt.Sprintf("%d - %d", g.FAT0Start, g.FAT0End)},
		{"Data sectors", fmt.Sprintf("%d - %d", g.DataStart, g.DataEnd)},
	}

	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%-24s %v\n", row.name+":", row.value); err != nil {
			return err
		}
	}
	return nil
}
