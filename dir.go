package fatscan

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/aligator/fatscan/checkpoint"
	"github.com/aligator/fatscan/internal/logger"
)

// WalkRoot parses the root directory and, recursively, everything below it.
func (img *Image) WalkRoot() ([]Entry, error) {
	return img.Walk(img.geometry.RootDirFirstCluster)
}

// Walk parses the directory starting at cluster and all of its subdirectories.
// The records are returned in pre-order: each record is directly followed by the records
// of the directory it points to, before its next sibling.
//
// Every record is reported, including deleted and unallocated ones. Subdirectories are
// expanded for all directory records except the first two of each directory, which are
// "." and "..". A directory referenced by more than one record is expanded after the
// first of them only. Walk reads everything again on each call.
func (img *Image) Walk(cluster uint32) ([]Entry, error) {
	if cluster < firstDataCluster {
		return nil, checkpoint.Errorf(ErrClusterRange, "directory cluster %d is reserved", cluster)
	}
	return walkDirectory(img, cluster, "")
}

// dirFrame is a directory being parsed. The frames on the stack form the path
// from the starting directory to the current one.
type dirFrame struct {
	cluster uint32
	parent  string
	sectors []uint64
	data    []byte
	index   int

	// longName collects the fragments in front of the next short record.
	longName []string
}

func (f *dirFrame) next() ([]byte, bool) {
	offset := f.index * DirEntrySize
	if len(f.data)-offset < DirEntrySize {
		return nil, false
	}
	return f.data[offset : offset+DirEntrySize], true
}

// walkDirectory uses an explicit stack instead of recursion as the directory depth is
// controlled by the image content.
func walkDirectory(src clusterSource, cluster uint32, parent string) ([]Entry, error) {
	log := logger.Logger()

	entries := []Entry{}
	onPath := make(map[uint32]struct{})
	expanded := make(map[uint32]struct{})
	var stack []*dirFrame

	push := func(cluster uint32, parent string) error {
		if _, ok := onPath[cluster]; ok {
			return checkpoint.Errorf(ErrDirectoryCycle, "directory %q points back to cluster %d", parent, cluster)
		}
		// Every directory is expanded only once, even if several records point to it.
		if _, ok := expanded[cluster]; ok {
			log.Debugw("directory already expanded", "cluster", cluster, "parent", parent)
			return nil
		}

		frame, err := openFrame(src, cluster, parent)
		if err != nil {
			return err
		}

		log.Debugw("parsing directory", "cluster", cluster, "parent", parent, "records", len(frame.data)/DirEntrySize)
		onPath[cluster] = struct{}{}
		expanded[cluster] = struct{}{}
		stack = append(stack, frame)
		return nil
	}

	if err := push(cluster, parent); err != nil {
		return nil, err
	}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		record, ok := frame.next()
		if !ok {
			delete(onPath, frame.cluster)
			stack = stack[:len(stack)-1]
			continue
		}

		entry, err := parseRecord(src, frame, record)
		if err != nil {
			return nil, err
		}
		frame.index++
		entries = append(entries, entry)

		// Clusters 0 and 1 are no data clusters, a record pointing there has no data.
		if entry.Directory != nil && entry.Directory.ContentCluster >= firstDataCluster {
			if err := push(entry.Directory.ContentCluster, entry.Path()); err != nil {
				return nil, err
			}
		}
	}

	return entries, nil
}

// openFrame reads the whole directory data. A directory without allocated clusters
// is just empty.
func openFrame(src clusterSource, cluster uint32, parent string) (*dirFrame, error) {
	frame := &dirFrame{
		cluster: cluster,
		parent:  parent,
	}

	var err error
	frame.sectors, err = src.SectorsFor(cluster)
	if err != nil {
		return nil, err
	}

	frame.data, err = src.RetrieveData(cluster, false)
	if err != nil {
		return nil, err
	}

	return frame, nil
}

// parseRecord decodes the record at the current index of the frame.
func parseRecord(src clusterSource, frame *dirFrame, record []byte) (Entry, error) {
	header := EntryHeader{}
	err := binary.Read(bytes.NewReader(record), binary.LittleEndian, &header)
	if err != nil {
		return Entry{}, checkpoint.Wrap(err, ErrTruncated)
	}

	entry := Entry{
		Parent:     frame.parent,
		DirCluster: frame.cluster,
		Index:      frame.index,
		DirSectors: make([]uint64, len(frame.sectors)),
		Type:       Classify(header.Attribute),
		Deleted:    record[0] == markerFree || record[0] == markerDeleted,
	}
	copy(entry.DirSectors, frame.sectors)

	name, ok, err := DecodeName(record)
	if err != nil {
		return Entry{}, checkpoint.Wrap(err, fmt.Errorf("record %d of the directory at cluster %d", frame.index, frame.cluster))
	}
	if ok {
		entry.Name = &name
	}

	if entry.Type == TypeLongName {
		if ok {
			frame.longName = append(frame.longName, name)
		}
		return entry, nil
	}

	// The fragments are stored in reverse order in front of their short record.
	for i := len(frame.longName) - 1; i >= 0; i-- {
		entry.LongName += frame.longName[i]
	}
	frame.longName = nil

	written := ParseTimestamp(header.WriteDate, header.WriteTime)

	switch {
	case entry.Type == TypeDirectory:
		if frame.index >= 2 {
			entry.Directory = &DirectoryPayload{
				ContentCluster: header.FirstCluster(),
				Written:        written,
			}
		}
	case entry.Type.IsContent():
		entry.File, err = parseFile(src, header)
		if err != nil {
			return Entry{}, err
		}
		entry.File.Written = written
	}

	return entry, nil
}

func parseFile(src clusterSource, header EntryHeader) (*FilePayload, error) {
	file := &FilePayload{
		FileSize:       header.FileSize,
		ContentCluster: header.FirstCluster(),
		ContentSectors: []uint64{},
		Content:        Bytes{},
	}

	// Empty files and unused slots point to cluster 0, which owns no chain.
	if file.ContentCluster < firstDataCluster {
		return file, nil
	}

	var err error
	file.ContentSectors, err = src.SectorsFor(file.ContentCluster)
	if err != nil {
		return nil, err
	}

	file.Content, file.Slack, file.SlackAvailable, err = extractContent(src, file.ContentCluster, file.FileSize)
	if err != nil {
		return nil, err
	}

	return file, nil
}

// VolumeLabel returns the label record of the root directory. Deleted labels
// are skipped. ok is false if there is none.
func (img *Image) VolumeLabel() (label string, ok bool, err error) {
	data, err := img.RetrieveData(img.geometry.RootDirFirstCluster, false)
	if err != nil {
		return "", false, err
	}

	for offset := 0; offset+DirEntrySize <= len(data); offset += DirEntrySize {
		record := data[offset : offset+DirEntrySize]
		if record[0] == markerFree || record[0] == markerDeleted {
			continue
		}
		if Classify(record[11]) != TypeVolumeLabel {
			continue
		}
		return DecodeName(record)
	}

	return "", false, nil
}
