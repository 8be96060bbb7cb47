package compress

import (
	"archive/zip"
	"bytes"
	"io"

	"github.com/go-faster/errors"
)

// ZipReader implements io.ReadCloser over the first CSV file of a ZIP archive.
type ZipReader struct {
	current io.ReadCloser
	name    string
}

// NewZipReader consumes r and opens the first CSV file found in the archive.
func NewZipReader(r io.ReadCloser) (*ZipReader, error) {
	data, err := readArchive(r)
	if err != nil {
		return nil, errors.Wrap(err, "read zip")
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(err, "open zip")
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if isCSV(f.Name) {
			rc, err := f.Open()
			if err != nil {
				return nil, errors.Wrapf(err, "open %s", f.Name)
			}
			return &ZipReader{current: rc, name: f.Name}, nil
		}
	}

	return nil, errors.Wrap(ErrNoCSV, "zip")
}

func (z *ZipReader) Read(p []byte) (int, error) {
	return z.current.Read(p)
}

func (z *ZipReader) Name() string {
	return z.name
}

func (z *ZipReader) Close() error {
	return z.current.Close()
}

// ZipWriter writes data into a single named file of a ZIP archive.
type ZipWriter struct {
	zipWriter *zip.Writer
	file      io.Writer
}

func NewZipWriter(w io.Writer, fileName string) (*ZipWriter, error) {
	zw := zip.NewWriter(w)
	f, err := zw.Create(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", fileName)
	}
	return &ZipWriter{
		zipWriter: zw,
		file:      f,
	}, nil
}

func (z *ZipWriter) Write(p []byte) (int, error) {
	return z.file.Write(p)
}

// Close finishes the archive.
func (z *ZipWriter) Close() error {
	return z.zipWriter.Close()
}
