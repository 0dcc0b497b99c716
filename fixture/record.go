package fixture

import (
	"encoding/binary"
	"strings"
	"time"
	"unicode/utf16"
)

// Attribute bits used by the records of the fixtures.
const (
	AttrReadOnly  = 0x01
	AttrHidden    = 0x02
	AttrSystem    = 0x04
	AttrVolumeID  = 0x08
	AttrDirectory = 0x10
	AttrArchive   = 0x20
	AttrLongName  = 0x0F
)

// lfnChars is the number of UTF-16 code units in one long name fragment.
const lfnChars = 13

// Record is one raw 32 byte directory record.
type Record [32]byte

// Short creates an 8.3 record. name is split at the last dot into base and
// extension which are padded with spaces, "." and ".." are kept as they are.
func Short(name string, attr byte, cluster, size uint32) Record {
	var r Record
	copy(r[:11], shortName(name))
	r[11] = attr
	binary.LittleEndian.PutUint16(r[20:22], uint16(cluster>>16))
	binary.LittleEndian.PutUint16(r[26:28], uint16(cluster))
	binary.LittleEndian.PutUint32(r[28:32], size)
	return r
}

// Label creates a volume label record.
func Label(name string) Record {
	var r Record
	copy(r[:11], pad(name, 11))
	r[11] = AttrVolumeID
	return r
}

// Dot creates the "." and ".." records of a subdirectory.
func Dot(self, parent uint32) []Record {
	return []Record{
		Short(".", AttrDirectory, self, 0),
		Short("..", AttrDirectory, parent, 0),
	}
}

// Deleted marks the record as deleted by replacing its first byte.
func (r Record) Deleted() Record {
	r[0] = 0xE5
	return r
}

// Written sets the last write date and time.
func (r Record) Written(t time.Time) Record {
	clock, date := dosTimestamp(t)
	binary.LittleEndian.PutUint16(r[22:24], clock)
	binary.LittleEndian.PutUint16(r[24:26], date)
	return r
}

// WithLongName returns the long name fragments for name in on disk order,
// followed by the short record they belong to.
func WithLongName(name string, short Record) []Record {
	units := utf16.Encode([]rune(name))
	if len(units)%lfnChars != 0 {
		units = append(units, 0)
	}
	for len(units)%lfnChars != 0 {
		units = append(units, 0xFFFF)
	}

	count := len(units) / lfnChars
	sum := checksum(short)
	records := make([]Record, 0, count+1)
	for seq := count; seq >= 1; seq-- {
		part := units[(seq-1)*lfnChars : seq*lfnChars]

		var r Record
		r[0] = byte(seq)
		if seq == count {
			r[0] |= 0x40
		}
		r[11] = AttrLongName
		r[13] = sum
		putUnits(r[1:11], part[0:5])
		putUnits(r[14:26], part[5:11])
		putUnits(r[28:32], part[11:13])
		records = append(records, r)
	}

	return append(records, short)
}

// Concat joins groups of records into one list.
func Concat(groups ...[]Record) []Record {
	var result []Record
	for _, g := range groups {
		result = append(result, g...)
	}
	return result
}

func putUnits(dst []byte, units []uint16) {
	for i, u := range units {
		binary.LittleEndian.PutUint16(dst[i*2:], u)
	}
}

func checksum(short Record) byte {
	var sum byte
	for _, c := range short[:11] {
		sum = (sum&1)<<7 + sum>>1 + c
	}
	return sum
}

func shortName(name string) string {
	if name == "." || name == ".." {
		return pad(name, 11)
	}

	base, ext := name, ""
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		base, ext = name[:i], name[i+1:]
	}
	return pad(base, 8) + pad(ext, 3)
}

func pad(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}

func dosTimestamp(t time.Time) (clock uint16, date uint16) {
	date = uint16(t.Year()-1980)<<9 | uint16(t.Month())<<5 | uint16(t.Day())
	clock = uint16(t.Hour())<<11 | uint16(t.Minute())<<5 | uint16(t.Second()/2)
	return clock, date
}
