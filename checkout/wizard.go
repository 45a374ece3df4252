// Package checkout implements the 3-step checkout flow: pick cart items,
// resolve where the food goes (table or street address), then pick a payment
// method and attach proof of the manual transfer. The steps are a fixed
// linear sequence with advance guards; submission is two sequential backend
// calls with no atomicity between them.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"warteg-web/apiclient"
	"warteg-web/backend"
	"warteg-web/models"
)

type Step int

const (
	StepCart    Step = 1
	StepAddress Step = 2
	StepPayment Step = 3
)

var (
	ErrNoItemsSelected  = errors.New("checkout: select at least one cart item")
	ErrNoDeliveryMode   = errors.New("checkout: choose dine-in or delivery")
	ErrNoAddress        = errors.New("checkout: select a delivery address")
	ErrNoTable          = errors.New("checkout: select a table")
	ErrNoPaymentMethod  = errors.New("checkout: choose a payment method")
	ErrNoProof          = errors.New("checkout: attach a proof of payment")
	ErrAlreadySubmitted = errors.New("checkout: order already submitted")
	ErrFirstStep        = errors.New("checkout: already on the first step")
	ErrLastStep         = errors.New("checkout: already on the last step")
)

// Wizard holds one session's in-progress checkout. Closing the wizard before
// submission discards everything; nothing is persisted client-side.
type Wizard struct {
	orders *backend.OrderService
	userID string

	mu              sync.Mutex
	step            Step
	cartItemIDs     []string
	deliveryMode    models.DeliveryMode
	addressID       string
	paymentMethodID string
	proof           *apiclient.Upload
	orderID         string
}

func New(orders *backend.OrderService, userID string) *Wizard {
	return &Wizard{orders: orders, userID: userID, step: StepCart}
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// OrderID is set once order creation succeeds, even when the proof upload
// afterwards fails.
func (w *Wizard) OrderID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.orderID
}

func (w *Wizard) SelectItems(cartItemIDs []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cartItemIDs = append([]string(nil), cartItemIDs...)
}

func (w *Wizard) SelectedItems() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.cartItemIDs...)
}

// SetDelivery records the delivery mode and the chosen address or table record.
func (w *Wizard) SetDelivery(mode models.DeliveryMode, addressID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.deliveryMode = mode
	w.addressID = addressID
}

func (w *Wizard) SetPayment(paymentMethodID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.paymentMethodID = paymentMethodID
}

func (w *Wizard) AttachProof(proof *apiclient.Upload) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.proof = proof
}

// CanAdvance reports whether the current step's guard is satisfied.
func (w *Wizard) CanAdvance() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.advanceGuard()
}

func (w *Wizard) advanceGuard() error {
	switch w.step {
	case StepCart:
		if len(w.cartItemIDs) == 0 {
			return ErrNoItemsSelected
		}
	case StepAddress:
		switch w.deliveryMode {
		case models.ModeDelivery:
			if w.addressID == "" {
				return ErrNoAddress
			}
		case models.ModeOnPlace:
			if w.addressID == "" {
				return ErrNoTable
			}
		default:
			return ErrNoDeliveryMode
		}
	case StepPayment:
		return ErrLastStep
	}
	return nil
}

// Next advances one step if the guard allows it.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.advanceGuard(); err != nil {
		return err
	}
	w.step++
	return nil
}

func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepCart {
		return ErrFirstStep
	}
	w.step--
	return nil
}

// CanSubmit checks every submission precondition at once.
func (w *Wizard) CanSubmit() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitGuard()
}

func (w *Wizard) submitGuard() error {
	if w.orderID != "" {
		return ErrAlreadySubmitted
	}
	if len(w.cartItemIDs) == 0 {
		return ErrNoItemsSelected
	}
	if w.deliveryMode == "" {
		return ErrNoDeliveryMode
	}
	if w.addressID == "" {
		if w.deliveryMode == models.ModeOnPlace {
			return ErrNoTable
		}
		return ErrNoAddress
	}
	if w.paymentMethodID == "" {
		return ErrNoPaymentMethod
	}
	if w.proof == nil {
		return ErrNoProof
	}
	return nil
}

// Submit creates the order, then uploads the payment proof. The two calls are
// strictly sequential and not atomic: when the proof upload fails the order
// stays in PENDING_PAYMENT server-side, no compensating delete is issued, and
// the returned orderID identifies the order the error relates to.
func (w *Wizard) Submit(ctx context.Context) (string, error) {
	w.mu.Lock()
	if err := w.submitGuard(); err != nil {
		w.mu.Unlock()
		return "", err
	}
	addressID := w.addressID
	req := backend.CreateOrderRequest{
		CartItemIDs:     append([]string(nil), w.cartItemIDs...),
		AddressID:       &addressID,
		PaymentMethodID: w.paymentMethodID,
		UserID:          w.userID,
	}
	proof := w.proof
	w.mu.Unlock()

	order, err := w.orders.Create(ctx, req)
	if err != nil {
		return "", err
	}

	w.mu.Lock()
	w.orderID = order.ID
	w.mu.Unlock()

	if _, err := w.orders.UploadProof(ctx, order.ID, proof); err != nil {
		return order.ID, fmt.Errorf("order %s created but proof upload failed: %w", order.ID, err)
	}
	return order.ID, nil
}

// Reset discards all selections and returns to the first step.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step = StepCart
	w.cartItemIDs = nil
	w.deliveryMode = ""
	w.addressID = ""
	w.paymentMethodID = ""
	w.proof = nil
	w.orderID = ""
}
