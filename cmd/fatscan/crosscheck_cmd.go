package main

import (
	"fmt"
	"io"

	"github.com/aligator/fatscan/internal/crosscheck"
	"github.com/aligator/fatscan/source"
	"github.com/spf13/cobra"
)

// Allow tests to inject a fake cross check.
var runCrosscheck = crosscheck.Check

// createCrosscheckCommand creates the crosscheck subcommand
func createCrosscheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "crosscheck [flags] IMAGE_FILE",
		Short: "compares the image with the view of go-diskfs",
		Long: `Crosscheck opens a raw image a second time using go-diskfs and
compares the detected filesystem type and the volume label. Differences
are reported as notes, they do not make the command fail.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if format := source.DetectFormat(args[0]); format != source.Raw {
				return fmt.Errorf("crosscheck needs a raw image, not %s", format)
			}
			return nil
		},
		RunE: executeCrosscheck,
	}
}

func executeCrosscheck(cmd *cobra.Command, args []string) error {
	img, file, err := openImage(cmd, args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	report := runCrosscheck(args[0], img)
	return writeResult(cmd, report, func(w io.Writer) error {
		return printReport(w, report)
	})
}

func printReport(w io.Writer, report crosscheck.Report) error {
	if _, err := fmt.Fprintf(w, "filesystem: %s\nlabel (diskfs): %q\nlabel (fatscan): %q\n",
		report.Filesystem, report.DiskfsLabel, report.FatscanLabel); err != nil {
		return err
	}

	if report.Consistent() {
		_, err := fmt.Fprintln(w, "no differences found")
		return err
	}

	for _, note := range report.Notes {
		if _, err := fmt.Fprintf(w, "note: %s\n", note); err != nil {
			return err
		}
	}
	return nil
}
