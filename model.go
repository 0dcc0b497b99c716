// File model contains the structs which match the direct structures of the FAT32 filesystem.
// All of them are little endian and can be read with binary.Read.

package fatscan

// Attribute bits of a directory record.
const (
	AttrReadOnly  = 0x01
	AttrHidden    = 0x02
	AttrSystem    = 0x04
	AttrVolumeID  = 0x08
	AttrDirectory = 0x10
	AttrArchive   = 0x20
	AttrLongName  = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
)

// Markers in the first byte of a directory record.
const (
	markerFree    = 0x00
	markerDeleted = 0xE5
)

// DirEntrySize is the size of one directory record.
const DirEntrySize = 32

// BPB is the BIOS parameter block at the start of the reserved sector,
// including the FAT32 extension.
type BPB struct {
	BSJumpBoot          [3]byte
	BSOEMName           [8]byte
	BytesPerSector      uint16
	SectorsPerCluster   byte
	ReservedSectorCount uint16
	NumFATs             byte
	RootEntryCount      uint16
	TotalSectors16      uint16
	Media               byte
	FATSize16           uint16
	SectorsPerTrack     uint16
	NumberOfHeads       uint16
	HiddenSectors       uint32
	TotalSectors32      uint32
	FAT32               FAT32SpecificData
}

type FAT32SpecificData struct {
	FATSize32        uint32
	ExtFlags         uint16
	FSVersion        uint16
	RootCluster      uint32
	FSInfo           uint16
	BkBootSector     uint16
	Reserved         [12]byte
	BSDriveNumber    byte
	BSReserved1      byte
	BSBootSignature  byte
	BSVolumeID       uint32
	BSVolumeLabel    [11]byte
	BSFileSystemType [8]byte
}

// EntryHeader is a short name (8.3) directory record.
type EntryHeader struct {
	Name            [11]byte
	Attribute       byte
	NTReserved      byte
	CreateTimeTenth byte
	CreateTime      uint16
	CreateDate      uint16
	LastAccessDate  uint16
	FirstClusterHI  uint16
	WriteTime       uint16
	WriteDate       uint16
	FirstClusterLO  uint16
	FileSize        uint32
}

// FirstCluster combines both halves of the first cluster number.
func (h EntryHeader) FirstCluster() uint32 {
	return uint32(h.FirstClusterHI)<<16 | uint32(h.FirstClusterLO)
}

// LongFilenameEntry is one fragment of a long file name. The name parts are
// kept as raw bytes because they get trimmed bytewise before decoding.
type LongFilenameEntry struct {
	Sequence  byte
	First     [10]byte
	Attribute byte
	EntryType byte
	Checksum  byte
	Second    [12]byte
	Zero      [2]byte
	Third     [4]byte
}
