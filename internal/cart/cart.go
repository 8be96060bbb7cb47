package cart

import (
	"math"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/drstein77/storefront/internal/models"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrNotInCart       = errors.New("product not in cart")
)

// DiscountFactor is what a discounted total is multiplied by (a flat 5% off).
var DiscountFactor = decimal.RequireFromString("0.95")

type line struct {
	product  models.Product
	quantity int
}

// Cart holds quantities keyed by product name.
type Cart struct {
	lines map[string]*line
	order []string
}

func New() *Cart {
	return &Cart{lines: make(map[string]*line)}
}

// AddItem adds quantity units of p, accumulating onto an existing line.
func (c *Cart) AddItem(p models.Product, quantity int) error {
	if quantity < 1 {
		return errors.Wrapf(ErrInvalidQuantity, "got %d", quantity)
	}
	if l, ok := c.lines[p.Name]; ok {
		if l.quantity > math.MaxInt-quantity {
			return errors.Wrapf(ErrInvalidQuantity, "%d more of %q overflows", quantity, p.Name)
		}
		l.quantity += quantity
		l.product = p
		return nil
	}
	c.lines[p.Name] = &line{product: p, quantity: quantity}
	c.order = append(c.order, p.Name)
	return nil
}

// RemoveItem deletes the whole line for name.
func (c *Cart) RemoveItem(name string) error {
	if _, ok := c.lines[name]; !ok {
		return errors.Wrapf(ErrNotInCart, "%q", name)
	}
	delete(c.lines, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Total is the sum of price times quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.subtotal())
	}
	return total
}

// ApplyDiscount returns the discounted total. The cart is not modified.
func (c *Cart) ApplyDiscount() decimal.Decimal {
	return c.Total().Mul(DiscountFactor)
}

func (c *Cart) Clear() {
	c.lines = make(map[string]*line)
	c.order = nil
}

func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, 0, len(c.order))
	for _, name := range c.order {
		l := c.lines[name]
		out = append(out, models.CartLine{
			Product:  l.product,
			Quantity: l.quantity,
			Subtotal: l.subtotal(),
		})
	}
	return out
}

func (c *Cart) Quantity(name string) int {
	if l, ok := c.lines[name]; ok {
		return l.quantity
	}
	return 0
}

func (c *Cart) Contains(name string) bool {
	_, ok := c.lines[name]
	return ok
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Summary is a cart snapshot for renderers.
type Summary struct {
	Lines []models.CartLine
	Total decimal.Decimal
}

func (c *Cart) Summary() Summary {
	return Summary{Lines: c.Lines(), Total: c.Total()}
}

func (l *line) subtotal() decimal.Decimal {
	return l.product.Price.Mul(decimal.NewFromInt(int64(l.quantity)))
}
