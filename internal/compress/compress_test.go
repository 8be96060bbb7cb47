package compress

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = "name,price\nPen,2.500\n"

func TestRoundTrip(t *testing.T) {
	for _, kind := range []string{Zip, Tar} {
		t.Run(kind, func(t *testing.T) {
			var archive bytes.Buffer
			w, err := NewWriter(kind, &archive, "products.csv")
			require.NoError(t, err)
			_, err = io.WriteString(w, payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := NewReader(kind, io.NopCloser(&archive))
			require.NoError(t, err)
			defer r.Close()
			assert.Equal(t, "products.csv", r.Name())

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, payload, string(got))
		})
	}
}

func TestZipWithoutCSV(t *testing.T) {
	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	f, err := zw.Create("readme.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = NewZipReader(io.NopCloser(&archive))
	assert.True(t, errors.Is(err, ErrNoCSV))
}

func TestTarWithoutCSV(t *testing.T) {
	var archive bytes.Buffer
	w := NewTarWriter(&archive, "readme.txt")
	_, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = NewTarReader(io.NopCloser(&archive))
	assert.True(t, errors.Is(err, ErrNoCSV))
}

func TestUnknownArchive(t *testing.T) {
	_, err := NewReader("rar", io.NopCloser(&bytes.Buffer{}))
	assert.True(t, errors.Is(err, ErrUnknownArchive))

	_, err = NewWriter("rar", &bytes.Buffer{}, "x.csv")
	assert.True(t, errors.Is(err, ErrUnknownArchive))
}

type zeros struct{}

func (zeros) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func TestArchiveTooLarge(t *testing.T) {
	big := io.NopCloser(io.LimitReader(zeros{}, MaxArchiveSize+1))
	_, err := NewReader(Tar, big)
	assert.True(t, errors.Is(err, ErrTooLarge))
}
