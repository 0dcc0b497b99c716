package fatscan

import (
	"strings"
	"time"
)

// Kind tells which payload an Entry carries.
type Kind int

const (
	// KindPlain entries have no payload: volume labels, long name fragments
	// and the "." and ".." records.
	KindPlain Kind = iota
	// KindDirectory entries carry a DirectoryPayload.
	KindDirectory
	// KindFile entries carry a FilePayload. Unallocated and deleted slots are files, too.
	KindFile
)

// Entry is one 32 byte record of a directory, together with the location of that
// directory. Entries are plain values without references into the Image.
type Entry struct {
	// Parent is the path of the directory containing the record, "" for the root.
	Parent string
	// DirCluster is the first cluster of the containing directory.
	DirCluster uint32
	// Index is the position of the record in the directory's data, starting at 0.
	Index int
	// DirSectors are all sectors of the containing directory.
	DirSectors []uint64

	Type EntryType
	// Name is nil for an unallocated record.
	Name *string
	// LongName is assembled from the long name fragments directly in front of this record.
	LongName string
	Deleted  bool

	Directory *DirectoryPayload
	File      *FilePayload
}

// DirectoryPayload is attached to subdirectory records.
type DirectoryPayload struct {
	ContentCluster uint32
	Written        time.Time
}

// FilePayload is attached to every record which is neither a volume label,
// a long name fragment nor a directory.
type FilePayload struct {
	FileSize       uint32
	ContentCluster uint32
	ContentSectors []uint64
	// Content holds up to ContentLimit bytes of the file.
	Content Bytes
	// Slack holds up to SlackLimit bytes after the end of the file.
	// It is only meaningful if SlackAvailable is true, which is not the case
	// for unallocated clusters.
	Slack          Bytes
	SlackAvailable bool
	Written        time.Time
}

// Kind returns which payload the entry carries.
func (e Entry) Kind() Kind {
	switch {
	case e.Directory != nil:
		return KindDirectory
	case e.File != nil:
		return KindFile
	default:
		return KindPlain
	}
}

// DisplayName prefers the long name and falls back to the short one.
// Unallocated records have an empty name.
func (e Entry) DisplayName() string {
	if e.LongName != "" {
		return e.LongName
	}
	if e.Name == nil {
		return ""
	}
	return *e.Name
}

// Path is the full path of the entry, built from the short names like Parent.
func (e Entry) Path() string {
	if e.Name == nil {
		return e.Parent + "/"
	}
	return e.Parent + "/" + *e.Name
}

// Bytes is raw content which is displayed as a byte string literal,
// b'text\x00', to keep non printable bytes readable.
type Bytes []byte

func (b Bytes) String() string {
	quote := byte('\'')
	if strings.IndexByte(string(b), '\'') >= 0 && strings.IndexByte(string(b), '"') < 0 {
		quote = '"'
	}

	var sb strings.Builder
	sb.Grow(len(b) + 3)
	sb.WriteByte('b')
	sb.WriteByte(quote)
	for _, c := range b {
		switch {
		case c == quote || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\t':
			sb.WriteString(`\t`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c >= 0x20 && c < 0x7F:
			sb.WriteByte(c)
		default:
			const hex = "0123456789abcdef"
			sb.WriteString(`\x`)
			sb.WriteByte(hex[c>>4])
			sb.WriteByte(hex[c&0x0F])
		}
	}
	sb.WriteByte(quote)
	return sb.String()
}
