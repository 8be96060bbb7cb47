// Package console is the plain-text terminal front end: it prompts for input
// line by line and renders catalog, cart and order output.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/cart"
	"github.com/drstein77/storefront/internal/models"
)

type Log interface {
	Debug(string, ...zap.Field)
	Info(string, ...zap.Field)
}

type line struct {
	text string
	err  error
}

// Console reads answers from in and writes everything else to out.
// It implements checkout.Prompter and checkout.Presenter.
type Console struct {
	out   io.Writer
	lines chan line
	log   Log

	done     chan struct{}
	stopOnce sync.Once
}

// New starts the goroutine reading in line by line. The goroutine ends at
// EOF, on a read error or once Run returns.
func New(in io.Reader, out io.Writer, log Log) *Console {
	c := &Console{
		out:   out,
		lines: make(chan line),
		log:   log,
		done:  make(chan struct{}),
	}
	go c.readLines(in)
	return c
}

func (c *Console) readLines(in io.Reader) {
	defer close(c.lines)

	reader := bufio.NewReader(in)
	for {
		select {
		case <-c.done:
			return
		default:
		}

		text, err := reader.ReadString('\n')
		if err != nil {
			// a last line without a trailing newline still counts
			if err == io.EOF && text != "" {
				c.send(line{text: strings.TrimRight(text, "\r\n")})
			}
			if err != io.EOF {
				c.send(line{err: err})
			}
			return
		}
		if !c.send(line{text: strings.TrimRight(text, "\r\n")}) {
			return
		}
	}
}

// send hands l to Prompt; false once the console is closed.
func (c *Console) send(l line) bool {
	select {
	case c.lines <- l:
		return true
	case <-c.done:
		return false
	}
}

// close releases the reading goroutine. Input it has not handed over is dropped.
func (c *Console) close() {
	c.stopOnce.Do(func() { close(c.done) })
}

// Prompt prints question and waits for the next input line. It gives up when
// ctx is done and returns io.EOF once input is exhausted.
func (c *Console) Prompt(ctx context.Context, question string) (string, error) {
	fmt.Fprint(c.out, question)

	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return "", ctx.Err()
	case l, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		if l.err != nil {
			return "", l.err
		}
		return l.text, nil
	}
}

func (c *Console) Notify(msg string) {
	fmt.Fprintln(c.out, msg)
}

func (c *Console) ShowCart(summary cart.Summary) {
	fmt.Fprintln(c.out, "Shopping cart")
	if len(summary.Lines) == 0 {
		fmt.Fprintln(c.out, "The cart is empty.")
	}
	for _, l := range summary.Lines {
		fmt.Fprintf(c.out, "%d x %s = %s\n", l.Quantity, l.Product.Name, models.FormatPrice(l.Subtotal))
	}
	fmt.Fprintf(c.out, "Total: %s\n", models.FormatPrice(summary.Total))
}

func (c *Console) ShowDiscount(total decimal.Decimal) {
	fmt.Fprintf(c.out, "Your 5%% discount was applied. Total to pay: %s\n", models.FormatPrice(total))
}

func (c *Console) ShowOrder(order models.Order) {
	fmt.Fprintf(c.out, "\nDear %s, your order details:\n", order.Recipient)
	fmt.Fprintf(c.out, "Order: %s\n", order.ID)
	fmt.Fprintf(c.out, "Recipient: %s\n", order.Recipient)
	fmt.Fprintf(c.out, "Shipping address: %s\n", order.Address)
	fmt.Fprintf(c.out, "Payment method: %s\n", order.PaymentMethod.Title())
	fmt.Fprintf(c.out, "Total: %s\n", models.FormatPrice(order.Total))
}

// ShowProducts prints a titled block per product, the variant marked after
// the name.
func (c *Console) ShowProducts(title string, products []models.Product) {
	fmt.Fprintln(c.out, title)
	for _, p := range products {
		fmt.Fprintf(c.out, "Name: %s %s\n", p.Name, p.Variant.Hint())
		fmt.Fprintf(c.out, "Description: %s\n", p.Description)
		fmt.Fprintf(c.out, "Price: %s\n", models.FormatPrice(p.Price))
		fmt.Fprintf(c.out, "Category: %s\n\n", p.Category)
	}
}
