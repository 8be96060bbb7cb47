package compress

import (
	"archive/tar"
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// ErrNoCSV is returned when an archive holds no .csv entry.
var ErrNoCSV = errors.New("no CSV file in archive")

// TarReader reads the first CSV entry of a TAR archive.
type TarReader struct {
	current io.Reader
	name    string
	eof     bool
}

// NewTarReader consumes r and positions the reader on the first CSV entry.
func NewTarReader(r io.ReadCloser) (*TarReader, error) {
	data, err := readArchive(r)
	if err != nil {
		return nil, errors.Wrap(err, "read tar")
	}

	tr := tar.NewReader(bytes.NewReader(data))
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "next tar entry")
		}
		if header.Typeflag == tar.TypeReg && isCSV(header.Name) {
			return &TarReader{current: tr, name: header.Name}, nil
		}
	}

	return nil, errors.Wrap(ErrNoCSV, "tar")
}

func (t *TarReader) Read(p []byte) (int, error) {
	if t.eof {
		return 0, io.EOF
	}
	n, err := t.current.Read(p)
	if err == io.EOF {
		t.eof = true
	}
	return n, err
}

func (t *TarReader) Name() string {
	return t.name
}

func (t *TarReader) Close() error {
	return nil
}

// TarWriter packages everything written to it as a single TAR entry.
// The entry size must be known up front, so data is buffered until Close.
type TarWriter struct {
	w        io.Writer
	fileName string
	buf      bytes.Buffer
}

func NewTarWriter(w io.Writer, fileName string) *TarWriter {
	return &TarWriter{w: w, fileName: fileName}
}

func (t *TarWriter) Write(p []byte) (int, error) {
	return t.buf.Write(p)
}

// Close writes the entry and the archive trailer.
func (t *TarWriter) Close() error {
	tw := tar.NewWriter(t.w)
	header := &tar.Header{
		Name:     t.fileName,
		Mode:     0o644,
		Size:     int64(t.buf.Len()),
		ModTime:  time.Now(),
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(header); err != nil {
		return errors.Wrap(err, "write tar header")
	}
	if _, err := tw.Write(t.buf.Bytes()); err != nil {
		return errors.Wrap(err, "write tar entry")
	}
	return tw.Close()
}

func isCSV(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".csv")
}
