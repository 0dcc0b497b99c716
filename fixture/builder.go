// Package fixture builds synthetic FAT32 images in memory.
//
// Only the structures a reader needs are written: the boot sector with its
// backup, the FSInfo sector, all FAT copies and the data of the clusters which
// were set explicitly. Everything else stays zero.
package fixture

import (
	"encoding/binary"

	"github.com/aligator/fatscan/checkpoint"
	"github.com/spf13/afero"
)

// Special FAT values.
const (
	FATFree = 0x00000000
	FATBad  = 0x0FFFFFF7
	FATEOC  = 0x0FFFFFFF
)

const (
	fsInfoSector     = 1
	backupBootSector = 6
)

// Geometry holds the boot parameters written to the image.
type Geometry struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumberOfFATs      uint8
	SectorsPerFAT     uint32
	TotalSectors      uint32
	RootCluster       uint32
	VolumeLabel       string
}

// ForensicGeometry is the layout of the sample images: 512 byte sectors,
// 2 sectors per cluster and the data region starting at sector 16384.
func ForensicGeometry() Geometry {
	return Geometry{
		BytesPerSector:    512,
		SectorsPerCluster: 2,
		ReservedSectors:   414,
		NumberOfFATs:      2,
		SectorsPerFAT:     7985,
		TotalSectors:      2060288,
		RootCluster:       2,
		VolumeLabel:       SampleLabel,
	}
}

// SmallGeometry is a tiny volume with single sector clusters.
func SmallGeometry() Geometry {
	return Geometry{
		BytesPerSector:    512,
		SectorsPerCluster: 1,
		ReservedSectors:   32,
		NumberOfFATs:      2,
		SectorsPerFAT:     16,
		TotalSectors:      2110,
		RootCluster:       2,
		VolumeLabel:       "SMALL",
	}
}

// DataStart is the first sector of cluster 2.
func (g Geometry) DataStart() uint64 {
	return uint64(g.ReservedSectors) + uint64(g.SectorsPerFAT)*uint64(g.NumberOfFATs)
}

// ClusterSector is the first sector of the cluster.
func (g Geometry) ClusterSector(cluster uint32) uint64 {
	return uint64(cluster-2)*uint64(g.SectorsPerCluster) + g.DataStart()
}

// ClusterSize is the size of a cluster in bytes.
func (g Geometry) ClusterSize() int {
	return int(g.BytesPerSector) * int(g.SectorsPerCluster)
}

// Builder collects the content of an image. All methods return the Builder
// so that calls can be chained.
type Builder struct {
	geometry Geometry
	fat      map[uint32]uint32
	clusters map[uint32][]byte
	maxSize  int
}

// NewBuilder creates an image with an empty root directory.
func NewBuilder(g Geometry) *Builder {
	b := &Builder{
		geometry: g,
		fat: map[uint32]uint32{
			0: 0x0FFFFFF8,
			1: FATEOC,
		},
		clusters: map[uint32][]byte{},
	}
	return b.SetFAT(g.RootCluster, FATEOC)
}

// Geometry returns the boot parameters of the image.
func (b *Builder) Geometry() Geometry {
	return b.geometry
}

// SetFAT sets the raw FAT entry of a cluster.
func (b *Builder) SetFAT(cluster, value uint32) *Builder {
	b.fat[cluster] = value
	return b
}

// Chain links the clusters in the given order and terminates the chain.
func (b *Builder) Chain(clusters ...uint32) *Builder {
	for i, c := range clusters {
		if i == len(clusters)-1 {
			b.fat[c] = FATEOC
		} else {
			b.fat[c] = clusters[i+1]
		}
	}
	return b
}

// Write stores raw data at the start of a cluster without touching the FAT.
// Data longer than a cluster is cut.
func (b *Builder) Write(cluster uint32, data []byte) *Builder {
	size := b.geometry.ClusterSize()
	buffer := make([]byte, size)
	copy(buffer, data)
	b.clusters[cluster] = buffer
	return b
}

// WriteChain chains the clusters and spreads data over them.
func (b *Builder) WriteChain(data []byte, clusters ...uint32) *Builder {
	b.Chain(clusters...)
	size := b.geometry.ClusterSize()
	for i, c := range clusters {
		from := min(i*size, len(data))
		to := min(from+size, len(data))
		b.Write(c, data[from:to])
	}
	return b
}

// Directory writes the records into a single cluster directory.
func (b *Builder) Directory(cluster uint32, records ...Record) *Builder {
	data := make([]byte, 0, len(records)*len(Record{}))
	for _, r := range records {
		data = append(data, r[:]...)
	}
	b.fat[cluster] = FATEOC
	return b.Write(cluster, data)
}

// Truncate limits the image to size bytes. This can be used to simulate
// images which ended up shorter than their boot sector claims.
func (b *Builder) Truncate(size int) *Builder {
	b.maxSize = size
	return b
}

// Bytes renders the image. It ends with the last written cluster, or the
// end of the FAT region if no data was written.
func (b *Builder) Bytes() []byte {
	g := b.geometry
	sectorSize := int(g.BytesPerSector)

	end := int(g.DataStart()) * sectorSize
	for c := range b.clusters {
		clusterEnd := int(g.ClusterSector(c))*sectorSize + g.ClusterSize()
		end = max(end, clusterEnd)
	}

	image := make([]byte, end)
	boot := b.bootSector()
	copy(image, boot)
	copy(image[backupBootSector*sectorSize:], boot)
	copy(image[fsInfoSector*sectorSize:], b.fsInfo())

	fat := b.fatBytes()
	for i := 0; i < int(g.NumberOfFATs); i++ {
		offset := (int(g.ReservedSectors) + i*int(g.SectorsPerFAT)) * sectorSize
		copy(image[offset:], fat)
	}

	for c, data := range b.clusters {
		copy(image[int(g.ClusterSector(c))*sectorSize:], data)
	}

	if b.maxSize > 0 && b.maxSize < len(image) {
		image = image[:b.maxSize]
	}
	return image
}

// WriteFile renders the image into a new file of fs.
func (b *Builder) WriteFile(fs afero.Fs, name string) error {
	return checkpoint.From(afero.WriteFile(fs, name, b.Bytes(), 0o644))
}

func (b *Builder) bootSector() []byte {
	g := b.geometry
	boot := make([]byte, g.BytesPerSector)

	copy(boot[0:3], []byte{0xEB, 0x58, 0x90})
	copy(boot[3:11], "MSWIN4.1")
	binary.LittleEndian.PutUint16(boot[11:13], g.BytesPerSector)
	boot[13] = g.SectorsPerCluster
	binary.LittleEndian.PutUint16(boot[14:16], g.ReservedSectors)
	boot[16] = g.NumberOfFATs
	boot[21] = 0xF8
	binary.LittleEndian.PutUint16(boot[24:26], 63)
	binary.LittleEndian.PutUint16(boot[26:28], 255)
	binary.LittleEndian.PutUint32(boot[32:36], g.TotalSectors)
	binary.LittleEndian.PutUint32(boot[36:40], g.SectorsPerFAT)
	binary.LittleEndian.PutUint32(boot[44:48], g.RootCluster)
	binary.LittleEndian.PutUint16(boot[48:50], fsInfoSector)
	binary.LittleEndian.PutUint16(boot[50:52], backupBootSector)
	boot[64] = 0x80
	boot[66] = 0x29
	binary.LittleEndian.PutUint32(boot[67:71], 0x1234ABCD)
	copy(boot[71:82], pad(g.VolumeLabel, 11))
	copy(boot[82:90], "FAT32   ")
	boot[510] = 0x55
	boot[511] = 0xAA
	return boot
}

func (b *Builder) fsInfo() []byte {
	info := make([]byte, b.geometry.BytesPerSector)
	binary.LittleEndian.PutUint32(info[0:4], 0x41615252)
	binary.LittleEndian.PutUint32(info[484:488], 0x61417272)
	binary.LittleEndian.PutUint32(info[488:492], 0xFFFFFFFF)
	binary.LittleEndian.PutUint32(info[492:496], 0xFFFFFFFF)
	binary.LittleEndian.PutUint32(info[508:512], 0xAA550000)
	return info
}

func (b *Builder) fatBytes() []byte {
	fat := make([]byte, int(b.geometry.SectorsPerFAT)*int(b.geometry.BytesPerSector))
	for c, v := range b.fat {
		offset := int(c) * 4
		if offset+4 > len(fat) {
			continue
		}
		binary.LittleEndian.PutUint32(fat[offset:], v)
	}
	return fat
}
