package fatscan

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode"
	"unicode/utf16"

	"github.com/aligator/fatscan/checkpoint"
	"golang.org/x/text/encoding/charmap"
)

// EntryType classifies a directory record by its attribute byte.
// Everything that is not a volume label, long name fragment or directory is
// represented by the attribute value in hex, e.g. "0x20".
type EntryType string

const (
	TypeVolumeLabel EntryType = "vol"
	TypeLongName    EntryType = "lfn"
	TypeDirectory   EntryType = "dir"

	// typeUnallocated is the type of a record with attribute 0.
	typeUnallocated EntryType = "0x0"
)

// Classify returns the type of a record with the given attribute byte.
// A long name fragment sets all of the read only, hidden, system and volume
// bits, so it has to be checked before the directory and volume bits.
func Classify(attribute byte) EntryType {
	switch {
	case attribute&AttrLongName == AttrLongName:
		return TypeLongName
	case attribute&AttrDirectory == AttrDirectory:
		return TypeDirectory
	case attribute&AttrVolumeID == AttrVolumeID:
		return TypeVolumeLabel
	default:
		return EntryType(fmt.Sprintf("%#x", attribute))
	}
}

// IsContent reports whether records of this type point to file content.
func (t EntryType) IsContent() bool {
	return t != TypeVolumeLabel && t != TypeLongName && t != TypeDirectory
}

// DecodeName returns the displayed name of a 32 byte directory record.
// ok is false for an unallocated record, which has no name at all.
//
// Short names are decoded using code page 437. A leading 0xE5 deletion marker
// is shown as '_'.
func DecodeName(record []byte) (name string, ok bool, err error) {
	if len(record) < DirEntrySize {
		return "", false, checkpoint.Errorf(ErrTruncated, "directory record has only %d bytes", len(record))
	}

	entryType := Classify(record[11])
	switch entryType {
	case TypeLongName:
		name, err := decodeLongName(record)
		if err != nil {
			return "", false, err
		}
		return name, true, nil
	case typeUnallocated:
		return "", false, nil
	}

	raw := make([]byte, 11)
	copy(raw, record[:11])
	if raw[0] == markerDeleted {
		raw[0] = '_'
	}

	if entryType == TypeVolumeLabel || entryType == TypeDirectory {
		return decodeOEM(bytes.TrimRight(raw, " ")), true, nil
	}

	base := decodeOEM(bytes.Trim(raw[:8], " "))
	ext := decodeOEM(bytes.Trim(raw[8:11], " "))
	return base + "." + ext, true, nil
}

func decodeOEM(raw []byte) string {
	decoded, err := charmap.CodePage437.NewDecoder().Bytes(raw)
	if err != nil {
		// Every byte is defined in code page 437, but keep the raw bytes just in case.
		return string(raw)
	}
	return string(decoded)
}

// decodeLongName decodes the three UTF-16 parts of a long name fragment.
// 0xFF padding is stripped from every part before they get joined.
func decodeLongName(record []byte) (string, error) {
	lfn := LongFilenameEntry{}
	err := binary.Read(bytes.NewReader(record[:DirEntrySize]), binary.LittleEndian, &lfn)
	if err != nil {
		return "", checkpoint.Wrap(err, ErrTruncated)
	}

	var raw []byte
	raw = append(raw, trimPadding(lfn.First[:])...)
	raw = append(raw, trimPadding(lfn.Second[:])...)
	raw = append(raw, trimPadding(lfn.Third[:])...)

	name, err := decodeUTF16LE(raw)
	if err != nil {
		return "", err
	}

	// Names which end inside of a fragment are terminated by NUL.
	if len(name) > 0 && name[len(name)-1] == 0 {
		name = name[:len(name)-1]
	}

	return string(name), nil
}

// trimPadding removes 0xFF bytes from both ends. bytes.Trim cannot be used as
// it treats the cutset as UTF-8, where 0xFF stands for every invalid byte.
func trimPadding(span []byte) []byte {
	for len(span) > 0 && span[0] == 0xFF {
		span = span[1:]
	}
	for len(span) > 0 && span[len(span)-1] == 0xFF {
		span = span[:len(span)-1]
	}
	return span
}

// decodeUTF16LE decodes strictly: an odd byte count or an unpaired surrogate is an error.
func decodeUTF16LE(raw []byte) ([]rune, error) {
	if len(raw)%2 != 0 {
		return nil, checkpoint.Errorf(ErrInvalidLongName, "odd number of bytes (%d)", len(raw))
	}

	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}

	runes := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		unit := rune(units[i])
		if !utf16.IsSurrogate(unit) {
			runes = append(runes, unit)
			continue
		}

		if i+1 >= len(units) {
			return nil, checkpoint.Errorf(ErrInvalidLongName, "unpaired surrogate %#04x at the end", unit)
		}
		r := utf16.DecodeRune(unit, rune(units[i+1]))
		if r == unicode.ReplacementChar {
			return nil, checkpoint.Errorf(ErrInvalidLongName, "invalid surrogate pair %#04x %#04x", unit, units[i+1])
		}
		runes = append(runes, r)
		i++
	}

	return runes, nil
}
