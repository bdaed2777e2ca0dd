package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/adibratta/my-pos/internal/cart"
	"github.com/adibratta/my-pos/internal/domain"
	"github.com/adibratta/my-pos/internal/store"
	"github.com/adibratta/my-pos/internal/xid"
)

// CheckoutState tracks one checkout attempt through its lifecycle.
type CheckoutState string

const (
	// StateAwaitingCustomerInfo means the cart contains pre-order items and
	// customer details must be submitted before commit.
	StateAwaitingCustomerInfo CheckoutState = "awaiting_customer_info"
	// StateCommitting means the session may commit.
	StateCommitting CheckoutState = "committing"
	// StateClosed means the session committed or was cancelled; it accepts
	// no further operations.
	StateClosed CheckoutState = "closed"
)

// CheckoutSession is the single choke point that turns a cart into a durable
// transaction. It is single-shot: once committed or cancelled it rejects
// everything. It does NOT deduplicate two sessions built from the same cart;
// callers must disable the pay action while a session is in flight.
type CheckoutSession struct {
	svc      *Service
	cart     *cart.Cart
	state    CheckoutState
	customer domain.CustomerInfo
}

// BeginCheckout starts a checkout attempt for a non-empty cart. When the
// cart holds pre-order items the session waits for customer details first.
func (s *Service) BeginCheckout(c *cart.Cart) (*CheckoutSession, error) {
	if c == nil || c.Empty() {
		return nil, fmt.Errorf("%w: empty cart", store.ErrInvalidSale)
	}

	state := StateCommitting
	if c.HasPreOrder() {
		state = StateAwaitingCustomerInfo
	}
	return &CheckoutSession{svc: s, cart: c, state: state}, nil
}

func (cs *CheckoutSession) State() CheckoutState {
	return cs.state
}

// SubmitCustomerInfo provides the pre-order contact details. Name, phone and
// address must all be non-empty; on rejection the session state is
// unchanged and the error names every missing field.
func (cs *CheckoutSession) SubmitCustomerInfo(info domain.CustomerInfo) error {
	if cs.state != StateAwaitingCustomerInfo {
		return fmt.Errorf("%w: no customer info expected", store.ErrInvalidSale)
	}

	info.Name = strings.TrimSpace(info.Name)
	info.Phone = strings.TrimSpace(info.Phone)
	info.Address = strings.TrimSpace(info.Address)

	missing := make([]string, 0, 3)
	if info.Name == "" {
		missing = append(missing, "name")
	}
	if info.Phone == "" {
		missing = append(missing, "phone")
	}
	if info.Address == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Fields: missing}
	}

	cs.customer = info
	cs.state = StateCommitting
	return nil
}

// Cancel abandons the checkout attempt. The cart is preserved untouched.
func (cs *CheckoutSession) Cancel() {
	cs.state = StateClosed
}

// Commit builds the transaction from the cart snapshot and hands it to the
// record store as one atomic unit: transaction append, READY stock
// decrements and the optional customer insert either all land or none do.
// On a persistence failure the cart is preserved so the cashier can retry.
func (cs *CheckoutSession) Commit(ctx context.Context) (*domain.Transaction, error) {
	switch cs.state {
	case StateAwaitingCustomerInfo:
		return nil, &domain.ValidationError{Fields: []string{"name", "phone", "address"}}
	case StateClosed:
		return nil, fmt.Errorf("%w: checkout already closed", store.ErrInvalidSale)
	}

	lines := cs.cart.Lines()
	items := make([]domain.TransactionItem, 0, len(lines))
	var total, profit int64
	for _, line := range lines {
		subtotal := line.Subtotal()
		items = append(items, domain.TransactionItem{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Price:     line.Product.Price,
			Quantity:  line.Quantity,
			Subtotal:  subtotal,
			Type:      line.Product.Type,
		})
		total += subtotal
		profit += (line.Product.Price - line.Product.Cost) * int64(line.Quantity)
	}

	tx := domain.Transaction{
		ID:            xid.New("trx"),
		Date:          time.Now(),
		Items:         items,
		Total:         total,
		Profit:        profit,
		CustomerName:  domain.GenericCustomerName,
		PaymentMethod: domain.PaymentCash,
		IsPreOrder:    cs.cart.HasPreOrder(),
	}

	var customer *domain.Customer
	if tx.IsPreOrder && !cs.customer.IsGeneric() {
		tx.CustomerName = cs.customer.Name
		tx.CustomerPhone = cs.customer.Phone
		tx.CustomerAddress = cs.customer.Address
		// Every pre-order submission becomes a fresh customer record; no
		// merge by name or phone (see DESIGN.md).
		customer = &domain.Customer{
			ID:      xid.New("cus"),
			Name:    cs.customer.Name,
			Phone:   cs.customer.Phone,
			Address: cs.customer.Address,
		}
	}

	committed, err := cs.svc.repo.CommitSale(ctx, tx, customer)
	if err != nil {
		if errors.Is(err, store.ErrInvalidSale) {
			return nil, err
		}
		log.Printf("[checkout] WARN: commit not persisted, cart preserved (%s): %v", describeCart(cs.cart), err)
		return nil, fmt.Errorf("%w: %v", store.ErrPersistence, err)
	}

	cs.cart.Clear()
	cs.state = StateClosed
	return committed, nil
}

// Checkout runs the whole state machine for one request: it rebuilds the
// cart from current catalog state (re-applying stock ceilings), submits the
// customer block when required, and commits. This is the shape the HTTP
// surface uses, mirroring how the pre-order form submit drives the session.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.Transaction, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: empty cart", store.ErrInvalidSale)
	}

	c := cart.New()
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", store.ErrInvalidSale)
		}
		product, err := s.repo.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		// One AddItem per requested unit; READY quantities cap at stock.
		for i := 0; i < line.Quantity; i++ {
			if err := c.AddItem(*product); err != nil {
				return nil, err
			}
		}
	}

	session, err := s.BeginCheckout(c)
	if err != nil {
		return nil, err
	}
	if session.State() == StateAwaitingCustomerInfo {
		info := domain.CustomerInfo{}
		if req.Customer != nil {
			info = *req.Customer
		}
		if err := session.SubmitCustomerInfo(info); err != nil {
			return nil, err
		}
	}
	return session.Commit(ctx)
}
