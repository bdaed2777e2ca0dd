// Package memory holds the in-process repository used when no DATABASE_URL
// is configured. It is also the fixture backend for tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/adibratta/my-pos/internal/domain"
	"github.com/adibratta/my-pos/internal/store"
)

type Store struct {
	mu           sync.RWMutex
	products     map[string]domain.Product
	transactions []domain.Transaction
	customers    map[string]domain.Customer
	expenses     map[string]domain.Expense
	settings     domain.StoreSettings
}

// New returns an empty repository with default settings only.
func New() *Store {
	return &Store{
		products:     make(map[string]domain.Product),
		transactions: make([]domain.Transaction, 0, 64),
		customers:    make(map[string]domain.Customer),
		expenses:     make(map[string]domain.Expense),
		settings:     store.DefaultSettings(),
	}
}

// NewSeeded returns a repository pre-loaded with the starter catalog,
// matching the first-run behavior of the durable backend.
func NewSeeded() *Store {
	s := New()
	for _, p := range store.StarterCatalog(time.Now()) {
		s.products[p.ID] = p
	}
	return s
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	slices.SortFunc(products, func(a, b domain.Product) int {
		return strings.Compare(a.Name, b.Name)
	})
	return products, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (s *Store) AddProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" || product.Name == "" {
		return nil, store.ErrInvalidSale
	}
	if _, exists := s.products[product.ID]; exists {
		return nil, store.ErrInvalidSale
	}

	s.products[product.ID] = product
	created := product
	return &created, nil
}

func (s *Store) PutProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" || product.Name == "" {
		return nil, store.ErrInvalidSale
	}
	if _, exists := s.products[product.ID]; !exists {
		return nil, store.ErrNotFound
	}

	s.products[product.ID] = product
	updated := product
	return &updated, nil
}

// DeleteProduct removes the catalog entry only. Historical transactions keep
// their own denormalized line snapshots, so history is unaffected.
func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		result = append(result, cloneTransaction(tx))
	}
	slices.SortFunc(result, func(a, b domain.Transaction) int {
		if a.Date.Equal(b.Date) {
			return strings.Compare(b.ID, a.ID)
		}
		if a.Date.After(b.Date) {
			return -1
		}
		return 1
	})
	return result, nil
}

// CommitSale applies a checkout under one lock: the transaction is appended,
// READY stock is decremented (clamped at zero) and the customer, if any, is
// inserted. A rejected commit leaves every collection untouched.
func (s *Store) CommitSale(_ context.Context, tx domain.Transaction, customer *domain.Customer) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.ID == "" || len(tx.Items) == 0 {
		return nil, store.ErrInvalidSale
	}
	for _, existing := range s.transactions {
		if existing.ID == tx.ID {
			return nil, store.ErrInvalidSale
		}
	}
	if customer != nil && (customer.ID == "" || customer.Name == "") {
		return nil, store.ErrInvalidSale
	}

	for _, item := range tx.Items {
		p, ok := s.products[item.ProductID]
		if !ok || p.Type != domain.TypeReady {
			// Pre-orders never consume on-hand stock; deleted products
			// have nothing left to decrement.
			continue
		}
		p.Stock -= item.Quantity
		if p.Stock < 0 {
			p.Stock = 0
		}
		s.products[item.ProductID] = p
	}

	s.transactions = append(s.transactions, cloneTransaction(tx))
	if customer != nil {
		s.customers[customer.ID] = *customer
	}

	committed := cloneTransaction(tx)
	return &committed, nil
}

func (s *Store) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customers := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		customers = append(customers, c)
	}
	slices.SortFunc(customers, func(a, b domain.Customer) int {
		return strings.Compare(a.ID, b.ID)
	})
	return customers, nil
}

func (s *Store) AddCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if customer.ID == "" || customer.Name == "" {
		return nil, store.ErrInvalidSale
	}
	if _, exists := s.customers[customer.ID]; exists {
		return nil, store.ErrInvalidSale
	}

	s.customers[customer.ID] = customer
	created := customer
	return &created, nil
}

func (s *Store) DeleteCustomer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.customers, id)
	return nil
}

func (s *Store) ListExpenses(_ context.Context) ([]domain.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expenses := make([]domain.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		expenses = append(expenses, e)
	}
	slices.SortFunc(expenses, func(a, b domain.Expense) int {
		if a.Date.Equal(b.Date) {
			return strings.Compare(b.ID, a.ID)
		}
		if a.Date.After(b.Date) {
			return -1
		}
		return 1
	})
	return expenses, nil
}

func (s *Store) AddExpense(_ context.Context, expense domain.Expense) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expense.ID == "" || expense.Amount <= 0 {
		return nil, store.ErrInvalidSale
	}
	if _, exists := s.expenses[expense.ID]; exists {
		return nil, store.ErrInvalidSale
	}

	s.expenses[expense.ID] = expense
	created := expense
	return &created, nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.expenses[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}

func (s *Store) GetSettings(_ context.Context) (*domain.StoreSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := s.settings
	return &settings, nil
}

func (s *Store) PutSettings(_ context.Context, settings domain.StoreSettings) (*domain.StoreSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
	updated := settings
	return &updated, nil
}

func cloneTransaction(tx domain.Transaction) domain.Transaction {
	copied := tx
	copied.Items = make([]domain.TransactionItem, len(tx.Items))
	copy(copied.Items, tx.Items)
	return copied
}
