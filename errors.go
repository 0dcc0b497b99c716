package fatscan

import "errors"

// These errors may occur while reading an image.
// All returned errors are checkpoints and can be checked with errors.Is.
var (
	// ErrTruncated means the image ended before a structure was read completely.
	ErrTruncated = errors.New("image is truncated")
	// ErrInvalidBootSector means the boot parameters do not describe a usable FAT32 volume.
	ErrInvalidBootSector = errors.New("invalid boot sector")
	// ErrClusterRange means a cluster number is outside of the addressable FAT range.
	ErrClusterRange = errors.New("cluster number out of FAT range")
	// ErrChainCycle means a cluster chain leads back to one of its own clusters.
	ErrChainCycle = errors.New("cluster chain contains a cycle")
	// ErrDirectoryCycle means a directory contains itself, directly or through its subdirectories.
	ErrDirectoryCycle = errors.New("directory cycle detected")
	// ErrInvalidLongName means a long file name fragment is no valid UTF-16.
	ErrInvalidLongName = errors.New("invalid long file name")
)
