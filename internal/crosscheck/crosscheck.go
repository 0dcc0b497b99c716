// Package crosscheck compares what fatscan reads from an image with the
// view of go-diskfs, which parses the same structures independently.
package crosscheck

import (
	"fmt"
	"strings"

	"github.com/aligator/fatscan"
	"github.com/aligator/fatscan/internal/logger"
	"github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/filesystem"
)

// wholeDisk is the diskfs partition number of a filesystem without partition table.
const wholeDisk = 0

// Report is the result of a cross check. Differences are collected as notes,
// they are no errors as both readers may be right in their own way.
type Report struct {
	Path          string   `json:"path" yaml:"path"`
	Filesystem    string   `json:"filesystem" yaml:"filesystem"`
	DiskfsLabel   string   `json:"diskfs_label" yaml:"diskfs_label"`
	FatscanLabel  string   `json:"fatscan_label" yaml:"fatscan_label"`
	SectorSize    uint16   `json:"sector_size" yaml:"sector_size"`
	DiskBlockSize int64    `json:"disk_block_size" yaml:"disk_block_size"`
	Notes         []string `json:"notes" yaml:"notes"`
}

// Consistent reports whether no differences were found.
func (r Report) Consistent() bool {
	return len(r.Notes) == 0
}

// diskAccessor is the part of a diskfs disk which is needed.
type diskAccessor interface {
	GetFilesystem(partitionNumber int) (filesystem.FileSystem, error)
	Close() error
}

// Allow tests to inject a fake disk.
var openDisk = func(path string) (diskAccessor, int64, error) {
	disk, err := diskfs.Open(path, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return nil, 0, err
	}
	return disk, disk.LogicalBlocksize, nil
}

// Check opens the raw image at path with diskfs and compares it with img,
// which has to be opened from the same file.
func Check(path string, img *fatscan.Image) Report {
	log := logger.Logger()

	geometry := img.Geometry()
	report := Report{
		Path:       path,
		SectorSize: geometry.BytesPerSector,
		Notes:      []string{},
	}

	label, _, err := img.VolumeLabel()
	if err != nil {
		report.Notes = append(report.Notes, fmt.Sprintf("fatscan could not read the volume label: %v", err))
	}
	report.FatscanLabel = label

	disk, blockSize, err := openDisk(path)
	if err != nil {
		report.Notes = append(report.Notes, fmt.Sprintf("diskfs could not open the image: %v", err))
		return report
	}
	defer func() {
		if err := disk.Close(); err != nil {
			log.Warnf("closing %s failed: %v", path, err)
		}
	}()
	report.DiskBlockSize = blockSize

	if blockSize > 0 && blockSize != int64(geometry.BytesPerSector) {
		report.Notes = append(report.Notes,
			fmt.Sprintf("diskfs uses %d byte blocks, the boot sector declares %d byte sectors", blockSize, geometry.BytesPerSector))
	}

	fs, err := disk.GetFilesystem(wholeDisk)
	if err != nil || fs == nil {
		report.Notes = append(report.Notes, fmt.Sprintf("diskfs GetFilesystem(%d) failed: %v", wholeDisk, err))
		return report
	}

	report.Filesystem = filesystemTypeLabel(fs.Type())
	if fs.Type() != filesystem.TypeFat32 {
		report.Notes = append(report.Notes, fmt.Sprintf("diskfs detected %s instead of FAT32", report.Filesystem))
	}

	report.DiskfsLabel = strings.TrimSpace(fs.Label())
	if !strings.EqualFold(report.DiskfsLabel, strings.TrimSpace(report.FatscanLabel)) {
		report.Notes = append(report.Notes,
			fmt.Sprintf("volume label differs: diskfs %q, fatscan %q", report.DiskfsLabel, report.FatscanLabel))
	}

	log.Debugw("cross check done", "path", path, "notes", len(report.Notes))
	return report
}

// filesystemTypeLabel maps a diskfs filesystem.Type to a string label.
func filesystemTypeLabel(fsType filesystem.Type) string {
	switch fsType {
	case filesystem.TypeFat32:
		return "fat32"
	case filesystem.TypeISO9660:
		return "iso9660"
	case filesystem.TypeSquashfs:
		return "squashfs"
	case filesystem.TypeExt4:
		return "ext4"
	default:
		return fmt.Sprintf("unknown(%d)", fsType)
	}
}
