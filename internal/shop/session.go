// Package shop holds a customer's session: a view of the shared catalog and
// the customer's own cart.
package shop

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/cart"
	"github.com/drstein77/storefront/internal/checkout"
	"github.com/drstein77/storefront/internal/models"
)

// ErrCartEmpty is returned when removing from a cart that has nothing in it.
var ErrCartEmpty = errors.New("cart is empty, nothing to remove")

// Catalog is the read side of the product store.
type Catalog interface {
	GetAllProducts(context.Context) ([]models.Product, error)
	GetProduct(context.Context, string) (models.Product, error)
	ProductsByCategory(context.Context, string) ([]models.Product, error)
	SearchProducts(context.Context, string) ([]models.Product, error)
}

type Log interface {
	Debug(string, ...zap.Field)
	Info(string, ...zap.Field)
}

type Session struct {
	catalog Catalog
	cart    *cart.Cart
	log     Log
}

func NewSession(catalog Catalog, log Log) *Session {
	return &Session{
		catalog: catalog,
		cart:    cart.New(),
		log:     log,
	}
}

func (s *Session) Products(ctx context.Context) ([]models.Product, error) {
	return s.catalog.GetAllProducts(ctx)
}

// Product resolves an exact product name; catalog.ErrNotFound otherwise.
func (s *Session) Product(ctx context.Context, name string) (models.Product, error) {
	return s.catalog.GetProduct(ctx, name)
}

func (s *Session) ProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return s.catalog.ProductsByCategory(ctx, category)
}

func (s *Session) Search(ctx context.Context, term string) ([]models.Product, error) {
	return s.catalog.SearchProducts(ctx, term)
}

func (s *Session) CartSummary() cart.Summary {
	return s.cart.Summary()
}

func (s *Session) CartIsEmpty() bool {
	return s.cart.IsEmpty()
}

// AddToCart resolves name and adds the quantity typed by the user.
func (s *Session) AddToCart(ctx context.Context, name, quantityInput string) error {
	p, err := s.catalog.GetProduct(ctx, name)
	if err != nil {
		return err
	}

	quantity, err := ParseQuantity(quantityInput)
	if err != nil {
		return err
	}

	if err := s.cart.AddItem(p, quantity); err != nil {
		return err
	}
	s.log.Info("item added to cart",
		zap.String("product", p.Name),
		zap.Int("quantity", quantity),
		zap.Int("cart_quantity", s.cart.Quantity(p.Name)))
	return nil
}

// RemoveFromCart drops the whole line for the named product.
func (s *Session) RemoveFromCart(ctx context.Context, name string) error {
	if s.cart.IsEmpty() {
		return ErrCartEmpty
	}
	if err := s.cart.RemoveItem(name); err != nil {
		return err
	}
	s.log.Info("item removed from cart", zap.String("product", name))
	return nil
}

// Checkout runs the checkout flow against this session's cart.
func (s *Session) Checkout(ctx context.Context, prompter checkout.Prompter, presenter checkout.Presenter) (models.Order, error) {
	flow := checkout.NewFlow(prompter, presenter, s.log)
	order, err := flow.Run(ctx, s.cart)
	if err != nil {
		s.log.Debug("checkout ended without order",
			zap.Stringer("state", flow.State()),
			zap.Error(err))
	}
	return order, err
}

// ParseQuantity converts user input to a positive quantity.
func ParseQuantity(input string) (int, error) {
	q, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, errors.Wrapf(cart.ErrInvalidQuantity, "%q", input)
	}
	if q < 1 {
		return 0, errors.Wrapf(cart.ErrInvalidQuantity, "got %d", q)
	}
	return q, nil
}
