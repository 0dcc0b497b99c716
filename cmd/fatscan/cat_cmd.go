package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Cat command flags
var useFallback bool

// createCatCommand creates the cat subcommand
func createCatCommand() *cobra.Command {
	catCmd := &cobra.Command{
		Use:   "cat [flags] IMAGE_FILE CLUSTER",
		Short: "writes the raw data of a cluster chain",
		Long: `Cat writes all sectors of the cluster chain starting at CLUSTER to
stdout, including the slack behind the end of a file. The output format
flags are ignored.

With --fallback, the first sector of an unallocated cluster is written
anyway, which may reveal the data of a deleted file.`,
		Args: cobra.ExactArgs(2),
		RunE: executeCat,
	}

	catCmd.Flags().BoolVar(&useFallback, "fallback", false,
		"Read the first sector of unallocated clusters")

	return catCmd
}

func executeCat(cmd *cobra.Command, args []string) error {
	cluster, err := parseCluster(args[1])
	if err != nil {
		return err
	}

	img, file, err := openImage(cmd, args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := img.RetrieveData(cluster, useFallback)
	if err != nil {
		return fmt.Errorf("read chain: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
