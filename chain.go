package fatscan

import (
	"encoding/binary"

	"github.com/aligator/fatscan/checkpoint"
	"github.com/aligator/fatscan/internal/logger"
)

const (
	firstDataCluster = 2
	fatEntrySize     = 4
)

// fatEntry is the value stored for one cluster in the FAT.
type fatEntry uint32

// Value returns the 28 bits FAT32 actually uses. The upper 4 bits are reserved.
func (e fatEntry) Value() uint32 {
	return uint32(e) & 0x0FFFFFFF
}

// IsFree reports an unallocated cluster.
func (e fatEntry) IsFree() bool {
	return e.Value() == 0
}

// IsBad reports a cluster marked as defective.
func (e fatEntry) IsBad() bool {
	return e.Value() == 0x0FFFFFF7
}

// IsEOF reports the last cluster of a chain.
func (e fatEntry) IsEOF() bool {
	return e.Value() >= 0x0FFFFFF8
}

// fatEntry reads the FAT entry of a cluster.
// The cluster has to satisfy 0 < cluster*4+4 < size of the FAT in bytes.
func (img *Image) fatEntry(cluster uint32) (fatEntry, error) {
	end := uint64(cluster)*fatEntrySize + fatEntrySize
	if !(0 < end && end < uint64(len(img.fat))) {
		return 0, checkpoint.Errorf(ErrClusterRange, "cluster %d exceeds the FAT of %d bytes", cluster, len(img.fat))
	}

	offset := end - fatEntrySize
	return fatEntry(binary.LittleEndian.Uint32(img.fat[offset:end])), nil
}

// Allocated reports whether the FAT entry of the cluster is in use.
func (img *Image) Allocated(cluster uint32) (bool, error) {
	entry, err := img.fatEntry(cluster)
	if err != nil {
		return false, err
	}
	return !entry.IsFree(), nil
}

// SectorsFor follows the cluster chain starting at cluster and returns all sectors of it in chain order.
// The sectors of the chain are not necessarily contiguous.
// An unallocated start cluster has no data, in which case an empty list is returned.
// A chain pointing to a free cluster ends before that cluster.
func (img *Image) SectorsFor(cluster uint32) ([]uint64, error) {
	entry, err := img.fatEntry(cluster)
	if err != nil {
		return nil, err
	}

	sectors := []uint64{}
	if entry.IsFree() {
		return sectors, nil
	}

	visited := make(map[uint32]struct{})
	current := cluster
	for {
		if _, ok := visited[current]; ok {
			return nil, checkpoint.Errorf(ErrChainCycle, "cluster %d is reached twice from cluster %d", current, cluster)
		}
		visited[current] = struct{}{}

		first, err := img.geometry.ClusterToSector(current)
		if err != nil {
			return nil, err
		}
		for i := uint64(0); i < uint64(img.geometry.SectorsPerCluster); i++ {
			sectors = append(sectors, first+i)
		}

		if entry.IsEOF() {
			return sectors, nil
		}

		next := entry.Value()
		entry, err = img.fatEntry(next)
		if err != nil {
			return nil, err
		}

		// A free cluster ends the chain, its rest was released already.
		if entry.IsFree() {
			logger.Logger().Debugw("chain runs into a free cluster", "start", cluster, "last", current, "free", next)
			return sectors, nil
		}
		current = next
	}
}

// RetrieveData reads all sectors of the chain starting at cluster and concatenates them.
// This includes the slack behind the logical end of a file.
//
// If fallback is true and the cluster is unallocated, the first sector of the cluster is
// read anyway. That sector most likely belongs to whatever was stored there last, which
// is exactly what is wanted for deleted files whose chain is gone.
func (img *Image) RetrieveData(cluster uint32, fallback bool) ([]byte, error) {
	var sectors []uint64

	entry, err := img.fatEntry(cluster)
	if err != nil {
		return nil, err
	}

	if fallback && entry.IsFree() {
		sector, err := img.geometry.ClusterToSector(cluster)
		if err != nil {
			return nil, err
		}
		logger.Logger().Debugw("reading unallocated cluster", "cluster", cluster, "sector", sector)
		sectors = []uint64{sector}
	} else {
		sectors, err = img.SectorsFor(cluster)
		if err != nil {
			return nil, err
		}
	}

	return img.readSectors(sectors)
}

// readSectors reads the sectors one by one, keeping their order.
func (img *Image) readSectors(sectors []uint64) ([]byte, error) {
	data := make([]byte, 0, len(sectors)*int(img.geometry.BytesPerSector))
	for _, sector := range sectors {
		buffer, err := img.ReadSector(sector)
		if err != nil {
			return nil, err
		}
		data = append(data, buffer...)
	}
	return data, nil
}
