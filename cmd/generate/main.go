package main

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/aligator/fatscan/fixture"
	"github.com/aligator/fatscan/source"
	"github.com/spf13/afero"
)

// main for writing the test images. Can be executed using 'go generate' from the project root.
func main() {
	dest := "testdata"
	fs := afero.NewOsFs()

	if err := fs.MkdirAll(dest, 0o755); err != nil {
		panic(err)
	}

	images := map[string]*fixture.Builder{
		"empty.img":  fixture.Empty(fixture.ForensicGeometry()),
		"small.img":  fixture.Empty(fixture.SmallGeometry()),
		"sample.img": fixture.Sample(),
	}
	for name, b := range images {
		if err := b.WriteFile(fs, filepath.Join(dest, name)); err != nil {
			panic(err)
		}
	}

	// The sample image is also stored compressed to try the decompression of the reader.
	sample := fixture.Sample().Bytes()
	for _, format := range []source.Format{source.Gzip, source.XZ, source.Zstd} {
		fpath := filepath.Join(dest, "sample.img"+format.Extension())
		if err := writeCompressed(fs, fpath, sample, format); err != nil {
			panic(fmt.Errorf("%s: %w", fpath, err))
		}
	}
}

func writeCompressed(fs afero.Fs, fpath string, data []byte, format source.Format) error {
	outFile, err := fs.Create(fpath)
	if err != nil {
		return err
	}

	w, err := source.NewWriter(outFile, format)
	if err != nil {
		outFile.Close()
		return err
	}

	_, err = io.Copy(w, bytes.NewReader(data))

	// Close the writer first as it flushes into the file.
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if cerr := outFile.Close(); err == nil {
		err = cerr
	}
	return err
}
