package seed

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/drstein77/storefront/internal/compress"
	"github.com/drstein77/storefront/internal/models"
)

// Header is the column layout of product CSV files.
var Header = []string{"name", "description", "price", "category", "variant"}

var ErrInvalidRecord = errors.New("invalid product record")

// ParseCSV reads products from CSV with a Header row. The variant column
// may be omitted.
func ParseCSV(r io.Reader) ([]models.Product, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return nil, errors.Wrapf(ErrInvalidRecord, "%v", pe)
	}
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	if len(records) == 0 {
		return nil, nil
	}

	start := 0
	if strings.EqualFold(strings.TrimSpace(records[0][0]), Header[0]) {
		start = 1
	}

	products := make([]models.Product, 0, len(records)-start)
	for i, rec := range records[start:] {
		p, err := parseRecord(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", i+start+1)
		}
		products = append(products, p)
	}
	return products, nil
}

func parseRecord(rec []string) (models.Product, error) {
	if len(rec) < 4 {
		return models.Product{}, errors.Wrapf(ErrInvalidRecord, "want at least 4 fields, got %d", len(rec))
	}

	name := strings.TrimSpace(rec[0])
	if name == "" {
		return models.Product{}, errors.Wrap(ErrInvalidRecord, "empty name")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(rec[2]))
	if err != nil {
		return models.Product{}, errors.Wrapf(ErrInvalidRecord, "price %q", rec[2])
	}
	if price.IsNegative() {
		return models.Product{}, errors.Wrapf(ErrInvalidRecord, "negative price %s", price)
	}
	if !price.Equal(price.Round(models.PriceDecimals)) {
		return models.Product{}, errors.Wrapf(ErrInvalidRecord, "price %s has more than %d decimals", price, models.PriceDecimals)
	}

	variant := models.Physical
	if len(rec) > 4 {
		if variant, err = models.ParseVariant(rec[4]); err != nil {
			return models.Product{}, err
		}
	}

	return models.Product{
		Name:        name,
		Description: strings.TrimSpace(rec[1]),
		Price:       price,
		Category:    strings.TrimSpace(rec[3]),
		Variant:     variant,
	}, nil
}

// WriteCSV writes products with a Header row.
func WriteCSV(w io.Writer, products []models.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, p := range products {
		rec := []string{
			p.Name,
			p.Description,
			p.Price.StringFixed(models.PriceDecimals),
			p.Category,
			p.Variant.String(),
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrapf(err, "write %q", p.Name)
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadFile reads products from a .csv file or from the first CSV entry of a
// .zip or .tar archive.
func LoadFile(path string) ([]models.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open seed file")
	}

	var r io.ReadCloser = f
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".zip", ".tar":
		r, err = compress.NewReader(strings.TrimPrefix(ext, "."), f)
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", path)
		}
	}
	defer r.Close()

	products, err := ParseCSV(r)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return products, nil
}
