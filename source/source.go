// Package source opens image files for reading, decompressing them if needed.
//
// Compressed images are detected by their extension and decompressed
// completely into memory, as sectors are read with random access.
package source

import (
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aligator/fatscan/checkpoint"
	"github.com/aligator/fatscan/internal/logger"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"
)

// Format is the compression of an image file.
type Format int

const (
	Raw Format = iota
	Gzip
	XZ
	Zstd
)

var extensions = map[string]Format{
	".gz":  Gzip,
	".xz":  XZ,
	".zst": Zstd,
}

func (f Format) String() string {
	switch f {
	case Gzip:
		return "gzip"
	case XZ:
		return "xz"
	case Zstd:
		return "zstd"
	default:
		return "raw"
	}
}

// Extension returns the file extension of the format, "" for Raw.
func (f Format) Extension() string {
	for ext, format := range extensions {
		if format == f {
			return ext
		}
	}
	return ""
}

// DetectFormat guesses the compression from the file name.
func DetectFormat(name string) Format {
	return extensions[strings.ToLower(path.Ext(name))]
}

// Options control how an image is opened.
type Options struct {
	// Progress receives a progress bar while a compressed image is decompressed.
	// Nothing is shown if it is nil.
	Progress io.Writer
}

// Open opens the named image in fs. Raw images are returned as they are,
// compressed ones are decompressed into a memory file first.
// The caller has to close the returned file.
func Open(fs afero.Fs, name string, opts Options) (afero.File, error) {
	file, err := fs.Open(name)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	format := DetectFormat(name)
	if format == Raw {
		return file, nil
	}
	defer file.Close()

	var input io.Reader = file
	if opts.Progress != nil {
		bar, err := newBar(file, name, opts.Progress)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = bar.Finish()
		}()
		input = io.TeeReader(file, bar)
	}

	decompressed, err := decompress(input, format, strings.TrimSuffix(path.Base(name), path.Ext(name)))
	if err != nil {
		return nil, checkpoint.Wrap(err, fmt.Errorf("decompressing %s image %s", format, name))
	}

	return decompressed, nil
}

func newBar(file afero.File, name string, w io.Writer) (*progressbar.ProgressBar, error) {
	stat, err := file.Stat()
	if err != nil {
		return nil, checkpoint.From(err)
	}

	return progressbar.NewOptions64(stat.Size(),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(path.Base(name)),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(200*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	), nil
}

// decompress copies the decompressed input into a new memory file, which is
// rewound to its start.
func decompress(input io.Reader, format Format, name string) (afero.File, error) {
	reader, err := NewReader(input, format)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	output, err := afero.NewMemMapFs().Create(name)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	n, err := io.Copy(output, reader)
	if err != nil {
		_ = output.Close()
		return nil, checkpoint.From(err)
	}

	if _, err := output.Seek(0, io.SeekStart); err != nil {
		_ = output.Close()
		return nil, checkpoint.From(err)
	}

	logger.Logger().Debugw("decompressed image", "format", format, "bytes", n)
	return output, nil
}

// NewReader returns a reader decompressing r.
func NewReader(r io.Reader, format Format) (io.ReadCloser, error) {
	switch format {
	case Gzip:
		reader, err := gzip.NewReader(r)
		if err != nil {
			return nil, checkpoint.From(err)
		}
		return reader, nil
	case XZ:
		reader, err := xz.NewReader(r)
		if err != nil {
			return nil, checkpoint.From(err)
		}
		return io.NopCloser(reader), nil
	case Zstd:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, checkpoint.From(err)
		}
		return decoder.IOReadCloser(), nil
	default:
		return io.NopCloser(r), nil
	}
}

// NewWriter returns a writer compressing into w. Close has to be called to
// flush the compressed stream, it does not close w.
func NewWriter(w io.Writer, format Format) (io.WriteCloser, error) {
	switch format {
	case Gzip:
		return gzip.NewWriter(w), nil
	case XZ:
		writer, err := xz.NewWriter(w)
		if err != nil {
			return nil, checkpoint.From(err)
		}
		return writer, nil
	case Zstd:
		encoder, err := zstd.NewWriter(w)
		if err != nil {
			return nil, checkpoint.From(err)
		}
		return encoder, nil
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
