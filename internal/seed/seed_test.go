package seed

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drstein77/storefront/internal/compress"
	"github.com/drstein77/storefront/internal/models"
)

func TestDefault(t *testing.T) {
	products := Default()
	require.Len(t, products, 19)

	seen := make(map[string]bool)
	for _, p := range products {
		assert.False(t, seen[p.Name], "duplicate %q", p.Name)
		seen[p.Name] = true
		assert.False(t, p.Price.IsNegative(), p.Name)
		assert.NotEmpty(t, p.Category, p.Name)
	}
	assert.Equal(t, models.Digital, products[1].Variant)
}

func TestParseCSV(t *testing.T) {
	in := "name,description,price,category,variant\n" +
		"Book,\"A novel, paperback\",10.000,Books,physical\n" +
		"Course,Online,220,Learning,DIGITAL\n" +
		"Pen,Blue ink,2.5,Office\n"

	products, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, "A novel, paperback", products[0].Description)
	assert.Equal(t, models.Digital, products[1].Variant)
	assert.Equal(t, models.Physical, products[2].Variant)
	assert.Equal(t, "2.500", products[2].Price.StringFixed(3))
}

func TestParseCSVRejectsBadRows(t *testing.T) {
	cases := map[string]string{
		"bad price":      "Book,x,ten,Books\n",
		"negative price": "Book,x,-1,Books\n",
		"short row":      "Book,x,1\n",
		"empty name":     " ,x,1,Books\n",
		"stray quote":    "A,\"bad\"quote,1,X\n",
		"four decimals":  "Book,x,1.2345,Books\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(in))
			assert.True(t, errors.Is(err, ErrInvalidRecord), "%v", err)
		})
	}

	products, err := ParseCSV(strings.NewReader("Book,x,1.2500,Books\n"))
	require.NoError(t, err)
	assert.Equal(t, "1.250", products[0].Price.StringFixed(3))

	_, err = ParseCSV(strings.NewReader("Book,x,1,Books,vinyl\n"))
	assert.True(t, errors.Is(err, models.ErrUnknownVariant))
}

func TestWriteThenParse(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Default()))

	products, err := ParseCSV(&buf)
	require.NoError(t, err)
	require.Len(t, products, len(Default()))
	for i, p := range Default() {
		assert.Equal(t, p.Name, products[i].Name)
		assert.True(t, p.Price.Equal(products[i].Price), p.Name)
		assert.Equal(t, p.Variant, products[i].Variant)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	for _, kind := range []string{"csv", compress.Zip, compress.Tar} {
		t.Run(kind, func(t *testing.T) {
			path := filepath.Join(dir, "products."+kind)
			f, err := os.Create(path)
			require.NoError(t, err)

			if kind == "csv" {
				require.NoError(t, WriteCSV(f, Default()[:3]))
			} else {
				w, err := compress.NewWriter(kind, f, "products.csv")
				require.NoError(t, err)
				require.NoError(t, WriteCSV(w, Default()[:3]))
				require.NoError(t, w.Close())
			}
			require.NoError(t, f.Close())

			products, err := LoadFile(path)
			require.NoError(t, err)
			assert.Len(t, products, 3)
		})
	}

	_, err := LoadFile(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
