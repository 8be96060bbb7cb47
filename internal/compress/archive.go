package compress

import (
	"bytes"
	"io"

	"github.com/go-faster/errors"
)

const (
	Zip = "zip"
	Tar = "tar"
)

// MaxArchiveSize bounds how much of an archive is read into memory.
const MaxArchiveSize = 32 << 20

var (
	ErrUnknownArchive = errors.New("unknown archive type")
	ErrTooLarge       = errors.New("archive too large")
)

// Entry is a reader over one archived file.
type Entry interface {
	io.ReadCloser
	Name() string
}

// NewReader opens the first CSV entry of an archive of the given type.
func NewReader(archiveType string, r io.ReadCloser) (Entry, error) {
	var (
		entry Entry
		err   error
	)
	switch archiveType {
	case Zip:
		entry, err = NewZipReader(r)
	case Tar:
		entry, err = NewTarReader(r)
	default:
		r.Close()
		return nil, errors.Wrapf(ErrUnknownArchive, "%q", archiveType)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// NewWriter packages everything written into fileName inside an archive.
func NewWriter(archiveType string, w io.Writer, fileName string) (io.WriteCloser, error) {
	switch archiveType {
	case Zip:
		return NewZipWriter(w, fileName)
	case Tar:
		return NewTarWriter(w, fileName), nil
	default:
		return nil, errors.Wrapf(ErrUnknownArchive, "%q", archiveType)
	}
}

// readArchive consumes and closes r, refusing more than MaxArchiveSize bytes.
func readArchive(r io.ReadCloser) ([]byte, error) {
	defer r.Close()

	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, io.LimitReader(r, MaxArchiveSize+1)); err != nil {
		return nil, err
	}
	if buf.Len() > MaxArchiveSize {
		return nil, errors.Wrapf(ErrTooLarge, "over %d bytes", MaxArchiveSize)
	}
	return buf.Bytes(), nil
}
