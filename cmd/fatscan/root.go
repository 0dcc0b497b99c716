package main

import (
	"fmt"
	"strconv"

	"github.com/aligator/fatscan"
	"github.com/aligator/fatscan/internal/config"
	"github.com/aligator/fatscan/internal/logger"
	"github.com/aligator/fatscan/source"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Global command flags
var (
	configFile   string
	logLevel     string = "warn"
	outputFormat string = config.FormatText
	prettyJSON   bool
	showProgress bool
	skipChecks   bool
)

// Allow tests to work on a memory file system.
var appFs afero.Fs = afero.NewOsFs()

// settings is the merged result of defaults, config file and flags.
var settings = config.Default()

// createRootCommand creates the fatscan command with all subcommands.
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fatscan",
		Short: "forensic reader for FAT32 images",
		Long: `fatscan reads a FAT32 image without modifying it and shows the
boot parameters, cluster chains and every directory record, including
deleted ones, long name fragments and the slack behind file contents.
Images ending in .gz, .xz or .zst are decompressed into memory first.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: applySettings,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "",
		"YAML config file with defaults for the flags below")
	flags.StringVar(&logLevel, "log-level", "warn",
		"Log level: debug, info, warn or error")
	flags.StringVar(&outputFormat, "format", config.FormatText,
		"Output format: text, json or yaml")
	flags.BoolVar(&prettyJSON, "pretty", false,
		"Pretty-print JSON output (only for --format json)")
	flags.BoolVar(&showProgress, "progress", false,
		"Show a progress bar while decompressing images")
	flags.BoolVar(&skipChecks, "skip-checks", false,
		"Only validate the boot parameters needed to locate sectors")

	rootCmd.AddCommand(
		createInfoCommand(),
		createTreeCommand(),
		createChainCommand(),
		createCatCommand(),
		createCrosscheckCommand(),
	)

	return rootCmd
}

// applySettings merges the config file with the flags. Flags which were set
// explicitly win over the file.
func applySettings(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(appFs, configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = outputFormat
	}
	if flags.Changed("pretty") {
		cfg.Pretty = prettyJSON
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("progress") {
		cfg.Progress = showProgress
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.Init(cfg.LogLevel, cmd.ErrOrStderr()); err != nil {
		return err
	}

	settings = cfg
	return nil
}

// openImage opens the image at path. The returned file has to be closed by the caller.
func openImage(cmd *cobra.Command, path string) (*fatscan.Image, afero.File, error) {
	log := logger.Logger()

	opts := source.Options{}
	if settings.Progress {
		opts.Progress = cmd.ErrOrStderr()
	}

	file, err := source.Open(appFs, path, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("open image: %w", err)
	}

	newImage := fatscan.New
	if skipChecks {
		newImage = fatscan.NewSkipChecks
	}

	img, err := newImage(file)
	if err != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("read image %s: %w", path, err)
	}

	log.Infof("Opened image %s: %s", path, img.Geometry())
	return img, file, nil
}

// parseCluster accepts decimal and 0x prefixed hexadecimal cluster numbers.
func parseCluster(arg string) (uint32, error) {
	cluster, err := strconv.ParseUint(arg, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid cluster %q: %w", arg, err)
	}
	return uint32(cluster), nil
}
