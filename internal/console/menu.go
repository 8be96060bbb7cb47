package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/cart"
	"github.com/drstein77/storefront/internal/catalog"
	"github.com/drstein77/storefront/internal/shop"
)

var ErrInvalidMenuChoice = errors.New("invalid menu choice")

type choice int

const (
	choiceCatalog choice = iota + 1
	choiceCart
	choiceAdd
	choiceRemove
	choiceCheckout
	choiceCategory
	choiceSearch
	choiceExit
)

const menu = `
STOREFRONT
1. View product catalog
2. View shopping cart
3. Add product to cart
4. Remove product from cart
5. Place order
6. Search products by category
7. Search products
8. Exit
`

const (
	MsgWelcome        = "Welcome to the store!"
	MsgFarewell       = "Thanks for visiting our store! Come back soon."
	MsgInvalidChoice  = "Invalid option. Try again."
	MsgNoProducts     = "No products available."
	MsgAdded          = "Product added to cart."
	MsgNotFound       = "Product not found."
	MsgInvalidQty     = "Invalid quantity, enter a whole number greater than zero."
	MsgNothingRemove  = "The cart is empty, nothing to remove."
	MsgRemoved        = "Product removed from cart."
	MsgNotFoundInCart = "Product not found in cart."
)

const (
	QuestionChoice   = "Choose an option: "
	QuestionName     = "Product name: "
	QuestionQuantity = "Quantity: "
	QuestionRemove   = "Product to remove: "
	QuestionCategory = "Category: "
	QuestionSearch   = "Search term (matches names and descriptions, any category): "
)

func parseChoice(input string) (choice, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < int(choiceCatalog) || n > int(choiceExit) {
		return 0, errors.Wrapf(ErrInvalidMenuChoice, "%q", input)
	}
	return choice(n), nil
}

// Run shows the menu until the user exits, input ends or ctx is done.
// Input errors are reported to the user and never end the loop.
func (c *Console) Run(ctx context.Context, session *shop.Session) error {
	defer c.close()

	c.Notify(MsgWelcome)
	for {
		fmt.Fprint(c.out, menu)
		input, err := c.Prompt(ctx, QuestionChoice)
		if err != nil {
			return c.stop(err)
		}

		ch, err := parseChoice(input)
		if err != nil {
			c.log.Debug("menu", zap.Error(err))
			c.Notify(MsgInvalidChoice)
			continue
		}
		if ch == choiceExit {
			c.Notify(MsgFarewell)
			return nil
		}

		if err := c.dispatch(ctx, session, ch); err != nil {
			return c.stop(err)
		}
	}
}

// stop ends the loop quietly when input runs out.
func (c *Console) stop(err error) error {
	if errors.Is(err, io.EOF) {
		c.Notify(MsgFarewell)
		return nil
	}
	return err
}

// dispatch runs one menu action. Only input failures are returned.
func (c *Console) dispatch(ctx context.Context, session *shop.Session, ch choice) error {
	switch ch {
	case choiceCatalog:
		return c.viewCatalog(ctx, session)
	case choiceCart:
		c.ShowCart(session.CartSummary())
		return nil
	case choiceAdd:
		return c.addToCart(ctx, session)
	case choiceRemove:
		return c.removeFromCart(ctx, session)
	case choiceCheckout:
		return c.checkout(ctx, session)
	case choiceCategory:
		return c.searchCategory(ctx, session)
	case choiceSearch:
		return c.search(ctx, session)
	}
	return nil
}

func (c *Console) viewCatalog(ctx context.Context, session *shop.Session) error {
	products, err := session.Products(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		c.Notify(MsgNoProducts)
		return nil
	}
	c.ShowProducts("PRODUCT CATALOG", products)
	return nil
}

func (c *Console) addToCart(ctx context.Context, session *shop.Session) error {
	name, err := c.Prompt(ctx, QuestionName)
	if err != nil {
		return err
	}
	p, err := session.Product(ctx, strings.TrimSpace(name))
	if errors.Is(err, catalog.ErrNotFound) {
		c.Notify(MsgNotFound)
		return nil
	}
	if err != nil {
		return err
	}

	quantity, err := c.Prompt(ctx, QuestionQuantity)
	if err != nil {
		return err
	}
	err = session.AddToCart(ctx, p.Name, quantity)
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		c.Notify(MsgInvalidQty)
	case errors.Is(err, catalog.ErrNotFound):
		c.Notify(MsgNotFound)
	case err != nil:
		return err
	default:
		c.Notify(MsgAdded)
	}
	return nil
}

func (c *Console) removeFromCart(ctx context.Context, session *shop.Session) error {
	if session.CartIsEmpty() {
		c.Notify(MsgNothingRemove)
		return nil
	}
	name, err := c.Prompt(ctx, QuestionRemove)
	if err != nil {
		return err
	}
	err = session.RemoveFromCart(ctx, strings.TrimSpace(name))
	switch {
	case errors.Is(err, cart.ErrNotInCart):
		c.Notify(MsgNotFoundInCart)
	case errors.Is(err, shop.ErrCartEmpty):
		c.Notify(MsgNothingRemove)
	case err != nil:
		return err
	default:
		c.Notify(MsgRemoved)
	}
	return nil
}

// checkout hands the session's cart to the checkout flow, which already told
// the user about every outcome. Only input failures come back.
func (c *Console) checkout(ctx context.Context, session *shop.Session) error {
	order, err := session.Checkout(ctx, c, c)
	if err == nil {
		c.log.Info("order placed", zap.String("order_id", order.ID))
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func (c *Console) searchCategory(ctx context.Context, session *shop.Session) error {
	category, err := c.Prompt(ctx, QuestionCategory)
	if err != nil {
		return err
	}
	category = strings.TrimSpace(category)
	products, err := session.ProductsByCategory(ctx, category)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		c.Notify(fmt.Sprintf("No products found in category '%s'.", category))
		return nil
	}
	c.ShowProducts(fmt.Sprintf("Products in category '%s'", category), products)
	return nil
}

func (c *Console) search(ctx context.Context, session *shop.Session) error {
	term, err := c.Prompt(ctx, QuestionSearch)
	if err != nil {
		return err
	}
	term = strings.TrimSpace(term)
	products, err := session.Search(ctx, term)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		c.Notify(fmt.Sprintf("No products match '%s'.", term))
		return nil
	}
	c.ShowProducts(fmt.Sprintf("Products matching '%s'", term), products)
	return nil
}
