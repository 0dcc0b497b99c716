package fatscan

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/aligator/fatscan/checkpoint"
)

// ReservedSectorSize is the number of bytes read to decode the boot parameters.
// The reserved sector always starts with them, independent of the real sector size.
const ReservedSectorSize = 512

// Geometry contains the boot parameters of a FAT32 volume and the values derived from them.
// It is computed once when an Image is opened and never changes afterwards.
type Geometry struct {
	BytesPerSector      uint16 `json:"bytes_per_sector" yaml:"bytes_per_sector"`
	SectorsPerCluster   uint8  `json:"sectors_per_cluster" yaml:"sectors_per_cluster"`
	ReservedSectors     uint16 `json:"reserved_sectors" yaml:"reserved_sectors"`
	NumberOfFATs        uint8  `json:"number_of_fats" yaml:"number_of_fats"`
	TotalSectors        uint32 `json:"total_sectors" yaml:"total_sectors"`
	SectorsPerFAT       uint32 `json:"sectors_per_fat" yaml:"sectors_per_fat"`
	RootDirFirstCluster uint32 `json:"root_dir_first_cluster" yaml:"root_dir_first_cluster"`

	BytesPerCluster uint32 `json:"bytes_per_cluster" yaml:"bytes_per_cluster"`
	FAT0Start       uint64 `json:"fat0_sector_start" yaml:"fat0_sector_start"`
	FAT0End         uint64 `json:"fat0_sector_end" yaml:"fat0_sector_end"`
	DataStart       uint64 `json:"data_start" yaml:"data_start"`
	DataEnd         uint64 `json:"data_end" yaml:"data_end"`
}

// ParseGeometry decodes the boot parameters from the first bytes of the reserved sector.
// If skipChecks is true, only the values without which no sector can be located are validated.
func ParseGeometry(reserved []byte, skipChecks bool) (Geometry, error) {
	if len(reserved) < ReservedSectorSize {
		return Geometry{}, checkpoint.Errorf(ErrTruncated, "reserved sector has only %d bytes", len(reserved))
	}

	bpb := BPB{}
	err := binary.Read(bytes.NewReader(reserved), binary.LittleEndian, &bpb)
	if err != nil {
		return Geometry{}, checkpoint.Wrap(err, ErrTruncated)
	}

	g := Geometry{
		BytesPerSector:      bpb.BytesPerSector,
		SectorsPerCluster:   bpb.SectorsPerCluster,
		ReservedSectors:     bpb.ReservedSectorCount,
		NumberOfFATs:        bpb.NumFATs,
		TotalSectors:        uint32(bpb.TotalSectors16),
		SectorsPerFAT:       bpb.FAT32.FATSize32,
		RootDirFirstCluster: bpb.FAT32.RootCluster,
	}

	// The 16 bit field is only used for small volumes, FAT32 normally uses the 32 bit one.
	if g.TotalSectors == 0 {
		g.TotalSectors = bpb.TotalSectors32
	}

	if err := g.validate(skipChecks); err != nil {
		return Geometry{}, err
	}

	g.BytesPerCluster = uint32(g.BytesPerSector) * uint32(g.SectorsPerCluster)
	g.FAT0Start = uint64(g.ReservedSectors)
	g.FAT0End = uint64(g.ReservedSectors) + uint64(g.SectorsPerFAT) - 1
	g.DataStart = uint64(g.ReservedSectors) + uint64(g.SectorsPerFAT)*uint64(g.NumberOfFATs)
	if g.TotalSectors > 0 {
		g.DataEnd = uint64(g.TotalSectors) - 1
	}

	return g, nil
}

func (g Geometry) validate(skipChecks bool) error {
	if g.BytesPerSector == 0 || g.BytesPerSector%DirEntrySize != 0 {
		return checkpoint.Errorf(ErrInvalidBootSector, "bytes per sector %d", g.BytesPerSector)
	}
	if g.SectorsPerCluster == 0 {
		return checkpoint.Errorf(ErrInvalidBootSector, "sectors per cluster is 0")
	}
	if g.SectorsPerFAT == 0 {
		return checkpoint.Errorf(ErrInvalidBootSector, "sectors per FAT is 0")
	}

	if skipChecks {
		return nil
	}

	// FAT only supports 512, 1024, 2048 and 4096.
	switch g.BytesPerSector {
	case 512, 1024, 2048, 4096:
	default:
		return checkpoint.Errorf(ErrInvalidBootSector, "invalid sector size %d", g.BytesPerSector)
	}

	// Sectors per cluster has to be a power of two.
	if g.SectorsPerCluster&(g.SectorsPerCluster-1) != 0 {
		return checkpoint.Errorf(ErrInvalidBootSector, "sectors per cluster %d is no power of two", g.SectorsPerCluster)
	}

	if g.ReservedSectors == 0 {
		return checkpoint.Errorf(ErrInvalidBootSector, "reserved sector count is 0")
	}

	if g.NumberOfFATs == 0 {
		return checkpoint.Errorf(ErrInvalidBootSector, "number of FATs is 0")
	}

	return nil
}

// FATBytes is the size of one FAT copy in bytes.
func (g Geometry) FATBytes() uint64 {
	return uint64(g.SectorsPerFAT) * uint64(g.BytesPerSector)
}

// ClusterToSector returns the first sector of the given data cluster.
// Cluster numbering of the data region starts at 2, smaller values have no sector.
func (g Geometry) ClusterToSector(cluster uint32) (uint64, error) {
	if cluster < firstDataCluster {
		return 0, checkpoint.Errorf(ErrClusterRange, "cluster %d has no data sectors", cluster)
	}
	return uint64(cluster-firstDataCluster)*uint64(g.SectorsPerCluster) + g.DataStart, nil
}

// ClusterLastSector returns the last sector of the given data cluster.
func (g Geometry) ClusterLastSector(cluster uint32) (uint64, error) {
	first, err := g.ClusterToSector(cluster)
	if err != nil {
		return 0, err
	}
	return first + uint64(g.SectorsPerCluster) - 1, nil
}

func (g Geometry) String() string {
	return fmt.Sprintf("FAT32 %d B/sector, %d sectors/cluster, data at sector %d", g.BytesPerSector, g.SectorsPerCluster, g.DataStart)
}
