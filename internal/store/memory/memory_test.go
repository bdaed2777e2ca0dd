package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adibratta/my-pos/internal/domain"
	"github.com/adibratta/my-pos/internal/store"
)

func TestNewSeededStarterCatalog(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	products, err := s.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 seeded products, got %d", len(products))
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if settings.Name != "Toko Suka Maju" {
		t.Fatalf("unexpected store name %q", settings.Name)
	}
	if settings.PIN != "123456" {
		t.Fatalf("unexpected default pin %q", settings.PIN)
	}
}

func TestProductCRUD(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.AddProduct(ctx, domain.Product{ID: "prd-1", Name: "Kopi", Price: 18000, Cost: 10000, Stock: 10, Type: domain.TypeReady})
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	if created.ID != "prd-1" {
		t.Fatalf("unexpected id %q", created.ID)
	}

	if _, err := s.AddProduct(ctx, domain.Product{ID: "prd-1", Name: "Dup"}); !errors.Is(err, store.ErrInvalidSale) {
		t.Fatalf("expected duplicate add to fail, got %v", err)
	}

	created.Price = 20000
	updated, err := s.PutProduct(ctx, *created)
	if err != nil {
		t.Fatalf("put product: %v", err)
	}
	if updated.Price != 20000 {
		t.Fatalf("expected updated price, got %d", updated.Price)
	}

	if _, err := s.GetProduct(ctx, "prd-missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := s.DeleteProduct(ctx, "prd-1"); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if err := s.DeleteProduct(ctx, "prd-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected second delete to fail, got %v", err)
	}
}

func TestCommitSaleDecrementsReadyStockOnly(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.AddProduct(ctx, domain.Product{ID: "prd-1", Name: "Kopi", Price: 18000, Cost: 10000, Stock: 10, Type: domain.TypeReady}); err != nil {
		t.Fatalf("add product: %v", err)
	}
	if _, err := s.AddProduct(ctx, domain.Product{ID: "prd-3", Name: "Hampers", Price: 150000, Cost: 100000, Stock: 0, Type: domain.TypePreOrder, PODeadline: "2026-12-31"}); err != nil {
		t.Fatalf("add product: %v", err)
	}

	tx := domain.Transaction{
		ID:   "trx-1",
		Date: time.Now(),
		Items: []domain.TransactionItem{
			{ProductID: "prd-1", Name: "Kopi", Price: 18000, Quantity: 2, Subtotal: 36000, Type: domain.TypeReady},
			{ProductID: "prd-3", Name: "Hampers", Price: 150000, Quantity: 1, Subtotal: 150000, Type: domain.TypePreOrder},
		},
		Total:         186000,
		Profit:        66000,
		CustomerName:  domain.GenericCustomerName,
		PaymentMethod: domain.PaymentCash,
		IsPreOrder:    true,
	}
	if _, err := s.CommitSale(ctx, tx, nil); err != nil {
		t.Fatalf("commit sale: %v", err)
	}

	coffee, err := s.GetProduct(ctx, "prd-1")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if coffee.Stock != 8 {
		t.Fatalf("expected stock 8 after sale, got %d", coffee.Stock)
	}

	hampers, err := s.GetProduct(ctx, "prd-3")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if hampers.Stock != 0 {
		t.Fatalf("expected pre-order stock untouched, got %d", hampers.Stock)
	}
}

func TestCommitSaleClampsStockAtZero(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.AddProduct(ctx, domain.Product{ID: "prd-1", Name: "Kopi", Price: 18000, Cost: 10000, Stock: 1, Type: domain.TypeReady}); err != nil {
		t.Fatalf("add product: %v", err)
	}

	tx := domain.Transaction{
		ID:   "trx-1",
		Date: time.Now(),
		Items: []domain.TransactionItem{
			{ProductID: "prd-1", Name: "Kopi", Price: 18000, Quantity: 5, Subtotal: 90000, Type: domain.TypeReady},
		},
		Total: 90000,
	}
	if _, err := s.CommitSale(ctx, tx, nil); err != nil {
		t.Fatalf("commit sale: %v", err)
	}

	p, err := s.GetProduct(ctx, "prd-1")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if p.Stock != 0 {
		t.Fatalf("expected stock clamped at 0, got %d", p.Stock)
	}
}

func TestCommitSaleRejectsDuplicateAndInvalid(t *testing.T) {
	s := New()
	ctx := context.Background()

	tx := domain.Transaction{
		ID:    "trx-1",
		Date:  time.Now(),
		Items: []domain.TransactionItem{{ProductID: "prd-x", Name: "X", Quantity: 1}},
	}
	if _, err := s.CommitSale(ctx, tx, nil); err != nil {
		t.Fatalf("commit sale: %v", err)
	}
	if _, err := s.CommitSale(ctx, tx, nil); !errors.Is(err, store.ErrInvalidSale) {
		t.Fatalf("expected duplicate id to fail, got %v", err)
	}

	if _, err := s.CommitSale(ctx, domain.Transaction{ID: "trx-2"}, nil); !errors.Is(err, store.ErrInvalidSale) {
		t.Fatalf("expected empty items to fail, got %v", err)
	}

	bad := domain.Transaction{
		ID:    "trx-3",
		Date:  time.Now(),
		Items: []domain.TransactionItem{{ProductID: "prd-x", Name: "X", Quantity: 1}},
	}
	if _, err := s.CommitSale(ctx, bad, &domain.Customer{ID: "", Name: ""}); !errors.Is(err, store.ErrInvalidSale) {
		t.Fatalf("expected invalid customer to fail, got %v", err)
	}
}

func TestCommitSaleInsertsCustomer(t *testing.T) {
	s := New()
	ctx := context.Background()

	tx := domain.Transaction{
		ID:    "trx-1",
		Date:  time.Now(),
		Items: []domain.TransactionItem{{ProductID: "prd-3", Name: "Hampers", Quantity: 1, Type: domain.TypePreOrder}},
	}
	customer := &domain.Customer{ID: "cus-1", Name: "Budi", Phone: "0812", Address: "Jakarta"}
	if _, err := s.CommitSale(ctx, tx, customer); err != nil {
		t.Fatalf("commit sale: %v", err)
	}

	customers, err := s.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(customers) != 1 || customers[0].Name != "Budi" {
		t.Fatalf("expected customer Budi, got %+v", customers)
	}
}

func TestListTransactionsNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	older := domain.Transaction{
		ID:    "trx-old",
		Date:  time.Date(2026, 1, 1, 10, 0, 0, 0, time.Local),
		Items: []domain.TransactionItem{{ProductID: "prd-x", Name: "X", Quantity: 1}},
	}
	newer := domain.Transaction{
		ID:    "trx-new",
		Date:  time.Date(2026, 1, 2, 10, 0, 0, 0, time.Local),
		Items: []domain.TransactionItem{{ProductID: "prd-x", Name: "X", Quantity: 1}},
	}
	if _, err := s.CommitSale(ctx, older, nil); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, err := s.CommitSale(ctx, newer, nil); err != nil {
		t.Fatalf("commit: %v", err)
	}

	txs, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 2 || txs[0].ID != "trx-new" {
		t.Fatalf("expected newest first, got %+v", txs)
	}
}

func TestTransactionLogIsImmutable(t *testing.T) {
	s := New()
	ctx := context.Background()

	tx := domain.Transaction{
		ID:    "trx-1",
		Date:  time.Now(),
		Items: []domain.TransactionItem{{ProductID: "prd-x", Name: "X", Price: 1000, Quantity: 1}},
	}
	if _, err := s.CommitSale(ctx, tx, nil); err != nil {
		t.Fatalf("commit: %v", err)
	}

	listed, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	listed[0].Items[0].Price = 999999

	again, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if again[0].Items[0].Price != 1000 {
		t.Fatalf("expected stored transaction untouched, got %d", again[0].Items[0].Price)
	}
}

func TestExpensesAndSettings(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.AddExpense(ctx, domain.Expense{ID: "exp-1", Date: time.Now(), Description: "Listrik", Amount: 30000, Category: "Operasional"}); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(expenses))
	}
	if err := s.DeleteExpense(ctx, "exp-1"); err != nil {
		t.Fatalf("delete expense: %v", err)
	}

	settings := store.DefaultSettings()
	settings.PIN = "654321"
	if _, err := s.PutSettings(ctx, settings); err != nil {
		t.Fatalf("put settings: %v", err)
	}
	got, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if got.PIN != "654321" {
		t.Fatalf("expected updated pin, got %q", got.PIN)
	}
}
