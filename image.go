package fatscan

import (
	"io"

	"github.com/aligator/fatscan/checkpoint"
	"github.com/aligator/fatscan/internal/logger"
	"github.com/spf13/afero"
)

//go:generate go run ./cmd/generate

// Image is a read-only handle on a FAT32 volume image.
// It owns the reader, the geometry and the bytes of the first FAT copy.
// Nothing is written back and nothing is cached besides the FAT.
//
// An Image is not safe for concurrent use because sectors are read through
// a shared Seek/Read position. Distinct Images can be used in parallel.
type Image struct {
	reader io.ReadSeeker
	closer io.Closer

	geometry Geometry
	fat      []byte
}

// New reads the boot parameters and the first FAT of the volume which has to
// start at offset 0 of reader. The reader stays owned by the caller.
func New(reader io.ReadSeeker) (*Image, error) {
	return newImage(reader, false)
}

// NewSkipChecks works like New but skips the boot sector validations which are
// not strictly needed to locate sectors. This may allow opening damaged or
// non-standard images. Use with caution!
func NewSkipChecks(reader io.ReadSeeker) (*Image, error) {
	return newImage(reader, true)
}

// Open opens the named image in fs. The returned Image owns the file and
// releases it on Close. If the image cannot be parsed, the file is closed before
// Open returns.
func Open(fs afero.Fs, name string) (*Image, error) {
	return openImage(fs, name, false)
}

// OpenSkipChecks is Open with the relaxed validation of NewSkipChecks.
func OpenSkipChecks(fs afero.Fs, name string) (*Image, error) {
	return openImage(fs, name, true)
}

func openImage(fs afero.Fs, name string, skipChecks bool) (*Image, error) {
	file, err := fs.Open(name)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	img, err := newImage(file, skipChecks)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	img.closer = file
	return img, nil
}

func newImage(reader io.ReadSeeker, skipChecks bool) (*Image, error) {
	img := &Image{
		reader: reader,
	}

	reserved := make([]byte, ReservedSectorSize)
	if err := img.readAt(reserved, 0); err != nil {
		return nil, err
	}

	geometry, err := ParseGeometry(reserved, skipChecks)
	if err != nil {
		return nil, err
	}
	img.geometry = geometry

	if err := img.loadFAT(); err != nil {
		return nil, err
	}

	logger.Logger().Debugw("opened FAT32 image",
		"bytesPerSector", geometry.BytesPerSector,
		"sectorsPerCluster", geometry.SectorsPerCluster,
		"dataStart", geometry.DataStart,
		"fatBytes", len(img.fat))

	return img, nil
}

// loadFAT reads the whole first FAT copy. Further copies are ignored.
func (img *Image) loadFAT() error {
	size, err := img.reader.Seek(0, io.SeekEnd)
	if err != nil {
		return checkpoint.From(err)
	}

	offset := img.geometry.FAT0Start * uint64(img.geometry.BytesPerSector)
	length := img.geometry.FATBytes()

	// Check before allocating, a damaged boot sector may claim a huge FAT.
	if offset+length > uint64(size) {
		return checkpoint.Errorf(ErrTruncated, "FAT region ends at byte %d but the image has %d bytes", offset+length, size)
	}

	img.fat = make([]byte, length)
	return img.readAt(img.fat, offset)
}

// readAt fills p completely, starting at the given byte offset.
func (img *Image) readAt(p []byte, offset uint64) error {
	_, err := img.reader.Seek(int64(offset), io.SeekStart)
	if err != nil {
		return checkpoint.From(err)
	}

	_, err = io.ReadFull(img.reader, p)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return checkpoint.Wrap(err, ErrTruncated)
	}
	return checkpoint.From(err)
}

// ReadSector reads one sector of the image.
func (img *Image) ReadSector(sector uint64) ([]byte, error) {
	buffer := make([]byte, img.geometry.BytesPerSector)
	err := img.readAt(buffer, sector*uint64(img.geometry.BytesPerSector))
	if err != nil {
		return nil, err
	}
	return buffer, nil
}

// Geometry returns the boot parameters of the volume.
func (img *Image) Geometry() Geometry {
	return img.geometry
}

// Close releases the backing file if the Image was created by Open.
// An Image created by New leaves its reader to the caller.
func (img *Image) Close() error {
	if img.closer == nil {
		return nil
	}

	err := img.closer.Close()
	img.closer = nil
	return checkpoint.From(err)
}
