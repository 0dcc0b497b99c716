package fatscan

import (
	"os"
	"time"
)

// FileInfo returns a view of the entry which can be used with tools expecting os.FileInfo.
func (e Entry) FileInfo() os.FileInfo {
	return entryFileInfo{e}
}

type entryFileInfo struct {
	entry Entry
}

func (e entryFileInfo) Name() string {
	return e.entry.DisplayName()
}

func (e entryFileInfo) Size() int64 {
	if e.entry.File == nil {
		return 0
	}
	return int64(e.entry.File.FileSize)
}

func (e entryFileInfo) Mode() os.FileMode {
	if e.IsDir() {
		return os.ModeDir
	}
	if e.entry.Type == TypeVolumeLabel || e.entry.Type == TypeLongName {
		return os.ModeIrregular
	}
	return 0
}

func (e entryFileInfo) ModTime() time.Time {
	switch {
	case e.entry.Directory != nil:
		return e.entry.Directory.Written
	case e.entry.File != nil:
		return e.entry.File.Written
	}
	return time.Time{}
}

func (e entryFileInfo) IsDir() bool {
	return e.entry.Type == TypeDirectory
}

func (e entryFileInfo) Sys() interface{} {
	return e.entry
}
