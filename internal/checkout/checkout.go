package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/cart"
	"github.com/drstein77/storefront/internal/models"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrCancelled            = errors.New("order cancelled")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// State is a step of the checkout flow.
type State int

const (
	Idle State = iota
	Reviewing
	Confirming
	CollectingDiscountEligibility
	CollectingPayment
	CollectingShipping
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Reviewing:
		return "reviewing"
	case Confirming:
		return "confirming"
	case CollectingDiscountEligibility:
		return "collecting_discount_eligibility"
	case CollectingPayment:
		return "collecting_payment"
	case CollectingShipping:
		return "collecting_shipping"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Prompter asks the user a question and returns the raw answer.
type Prompter interface {
	Prompt(ctx context.Context, question string) (string, error)
}

// Presenter shows checkout output to the user.
type Presenter interface {
	ShowCart(summary cart.Summary)
	ShowDiscount(total decimal.Decimal)
	Notify(msg string)
	ShowOrder(order models.Order)
}

type Log interface {
	Debug(string, ...zap.Field)
	Info(string, ...zap.Field)
}

const (
	QuestionConfirm   = "Confirm order? (s/n): "
	QuestionDiscount  = "Are you the professor? (s/n): "
	QuestionPayment   = "Payment method (efectivo/tarjeta): "
	QuestionRecipient = "Recipient name: "
	QuestionAddress   = "Shipping address: "
)

const (
	MsgEmptyCart      = "The cart is empty."
	MsgCancelled      = "Order cancelled."
	MsgNoDiscount     = "No discount for you :("
	MsgInvalidPayment = "Invalid payment method."
	MsgCashPayment    = "Payment will be collected in cash on delivery."
	MsgCardPayment    = "Your credit or debit card will be charged."
	MsgSuccess        = "Order placed successfully."
)

// Flow walks a cart through confirmation, discount, payment and shipping.
type Flow struct {
	prompter  Prompter
	presenter Presenter
	log       Log
	now       func() time.Time

	state State
}

func NewFlow(prompter Prompter, presenter Presenter, log Log) *Flow {
	return &Flow{
		prompter:  prompter,
		presenter: presenter,
		log:       log,
		now:       time.Now,
		state:     Idle,
	}
}

// State reports where the last run stopped.
func (f *Flow) State() State {
	return f.state
}

func (f *Flow) transition(to State) {
	f.log.Debug("checkout transition",
		zap.Stringer("from", f.state),
		zap.Stringer("to", to))
	f.state = to
}

// abort returns the flow to Idle after telling the user why.
func (f *Flow) abort(msg string, err error) (models.Order, error) {
	f.presenter.Notify(msg)
	f.transition(Idle)
	return models.Order{}, err
}

// Run executes one checkout. The cart is cleared only when the order completes.
func (f *Flow) Run(ctx context.Context, c *cart.Cart) (models.Order, error) {
	f.state = Idle

	if c.IsEmpty() {
		return f.abort(MsgEmptyCart, ErrEmptyCart)
	}

	f.transition(Reviewing)
	summary := c.Summary()
	f.presenter.ShowCart(summary)

	f.transition(Confirming)
	answer, err := f.prompter.Prompt(ctx, QuestionConfirm)
	if err != nil {
		return f.ioAbort(err)
	}
	if !IsYes(answer) {
		f.presenter.Notify(MsgCancelled)
		f.transition(Cancelled)
		f.transition(Idle)
		return models.Order{}, ErrCancelled
	}

	f.transition(CollectingDiscountEligibility)
	answer, err = f.prompter.Prompt(ctx, QuestionDiscount)
	if err != nil {
		return f.ioAbort(err)
	}
	total := summary.Total
	discounted := IsYes(answer)
	if discounted {
		total = c.ApplyDiscount()
		f.presenter.ShowDiscount(total)
	} else {
		f.presenter.Notify(MsgNoDiscount)
	}

	f.transition(CollectingPayment)
	answer, err = f.prompter.Prompt(ctx, QuestionPayment)
	if err != nil {
		return f.ioAbort(err)
	}
	method, err := models.ParsePaymentMethod(answer)
	if err != nil {
		return f.abort(MsgInvalidPayment, errors.Wrap(ErrInvalidPaymentMethod, err.Error()))
	}
	if method == models.PaymentCash {
		f.presenter.Notify(MsgCashPayment)
	} else {
		f.presenter.Notify(MsgCardPayment)
	}

	f.transition(CollectingShipping)
	recipient, err := f.prompter.Prompt(ctx, QuestionRecipient)
	if err != nil {
		return f.ioAbort(err)
	}
	address, err := f.prompter.Prompt(ctx, QuestionAddress)
	if err != nil {
		return f.ioAbort(err)
	}

	order := models.Order{
		ID:            uuid.NewString(),
		Recipient:     strings.TrimSpace(recipient),
		Address:       strings.TrimSpace(address),
		PaymentMethod: method,
		Lines:         summary.Lines,
		Subtotal:      summary.Total,
		Total:         total,
		Discounted:    discounted,
		CreatedAt:     f.now(),
	}

	f.transition(Completed)
	f.presenter.ShowOrder(order)
	f.presenter.Notify(MsgSuccess)
	c.Clear()

	f.log.Info("order completed",
		zap.String("order_id", order.ID),
		zap.String("payment_method", string(order.PaymentMethod)),
		zap.Stringer("total", order.Total),
		zap.Bool("discounted", order.Discounted))

	return order, nil
}

func (f *Flow) ioAbort(err error) (models.Order, error) {
	f.transition(Idle)
	return models.Order{}, errors.Wrap(err, "read answer")
}

// IsYes reports whether an answer is affirmative. Anything else counts as no.
func IsYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "si", "sí", "y", "yes":
		return true
	default:
		return false
	}
}
