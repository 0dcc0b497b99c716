package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// chainResult describes the cluster chain starting at a cluster.
type chainResult struct {
	Cluster   uint32   `json:"cluster" yaml:"cluster"`
	Allocated bool     `json:"allocated" yaml:"allocated"`
	Sectors   []uint64 `json:"sectors" yaml:"sectors,flow"`
}

// createChainCommand creates the chain subcommand
func createChainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chain [flags] IMAGE_FILE CLUSTER",
		Short: "lists the sectors of a cluster chain",
		Long: `Chain follows the file allocation table starting at CLUSTER and
lists all sectors of the chain in order. The sectors are not necessarily
contiguous. An unallocated cluster has no sectors.`,
		Args: cobra.ExactArgs(2),
		RunE: executeChain,
	}
}

func executeChain(cmd *cobra.Command, args []string) error {
	cluster, err := parseCluster(args[1])
	if err != nil {
		return err
	}

	img, file, err := openImage(cmd, args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	allocated, err := img.Allocated(cluster)
	if err != nil {
		return fmt.Errorf("read FAT: %w", err)
	}

	sectors, err := img.SectorsFor(cluster)
	if err != nil {
		return fmt.Errorf("follow chain: %w", err)
	}

	result := chainResult{Cluster: cluster, Allocated: allocated, Sectors: sectors}
	return writeResult(cmd, result, func(w io.Writer) error {
		if !result.Allocated {
			_, err := fmt.Fprintf(w, "cluster %d is unallocated\n", result.Cluster)
			return err
		}

		parts := make([]string, len(result.Sectors))
		for i, s := range result.Sectors {
			parts[i] = fmt.Sprint(s)
		}
		_, err := fmt.Fprintln(w, strings.Join(parts, " "))
		return err
	})
}
