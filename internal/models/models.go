package models

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// PriceDecimals is the number of fractional digits prices are shown with.
const PriceDecimals = 3

// ProcessResponse summarizes the catalog after an import.
type ProcessResponse struct {
	TotalItems      int             `json:"total_items"`
	TotalCategories int             `json:"total_categories"`
	TotalPrice      decimal.Decimal `json:"total_price"`
}

// Variant classifies a product as physical or digital. It only affects display.
type Variant int

const (
	Physical Variant = iota
	Digital
)

var ErrUnknownVariant = errors.New("unknown product variant")

func (v Variant) String() string {
	if v == Digital {
		return "digital"
	}
	return "physical"
}

// Hint is the marker renderers put next to a product of this variant.
func (v Variant) Hint() string {
	if v == Digital {
		return "[D]"
	}
	return "[P]"
}

func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVariant accepts "physical"/"digital" in any case. Empty means physical.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "physical", "fisico", "físico":
		return Physical, nil
	case "digital":
		return Digital, nil
	default:
		return Physical, errors.Wrapf(ErrUnknownVariant, "%q", s)
	}
}

// Product is an immutable description of a sellable item keyed by Name.
type Product struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Variant     Variant         `json:"variant"`
}

// FormatPrice renders an amount with the catalog's price precision.
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(PriceDecimals)
}

// CartLine is one product in a cart together with its quantity.
type CartLine struct {
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// PaymentMethod is how a completed order is paid.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "efectivo"
	PaymentCard PaymentMethod = "tarjeta"
)

var ErrUnknownPaymentMethod = errors.New("unknown payment method")

// ParsePaymentMethod matches the recognized payment methods case-insensitively.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(s))) {
	case PaymentCash:
		return PaymentCash, nil
	case PaymentCard:
		return PaymentCard, nil
	default:
		return "", errors.Wrapf(ErrUnknownPaymentMethod, "%q", s)
	}
}

// Title returns the method capitalized, the way order summaries show it.
func (m PaymentMethod) Title() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// Order is the transient result of a completed checkout. It is never stored.
type Order struct {
	ID            string
	Recipient     string
	Address       string
	PaymentMethod PaymentMethod
	Lines         []CartLine
	Subtotal      decimal.Decimal
	Total         decimal.Decimal
	Discounted    bool
	CreatedAt     time.Time
}
