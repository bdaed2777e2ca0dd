// Package store defines the record-store contract the rest of the
// application persists through, one implementation per backend.
package store

import (
	"context"
	"errors"

	"github.com/adibratta/my-pos/internal/domain"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidSale = errors.New("invalid sale")
	// ErrPersistence wraps backend read/write failures so callers can tell
	// "the commit did not happen" apart from "the commit was rejected".
	ErrPersistence = errors.New("persistence failure")
)

// Repository is the durable keyed storage for the five record collections.
// Transactions and expenses list newest-first by date.
//
// CommitSale is the single choke point for checkout: implementations must
// apply the transaction append, READY stock decrements (clamped at zero) and
// the optional customer insert atomically: either all effects land or none.
type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	AddProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	PutProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	CommitSale(ctx context.Context, tx domain.Transaction, customer *domain.Customer) (*domain.Transaction, error)

	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	AddCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	ListExpenses(ctx context.Context) ([]domain.Expense, error)
	AddExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (*domain.StoreSettings, error)
	PutSettings(ctx context.Context, settings domain.StoreSettings) (*domain.StoreSettings, error)
}
