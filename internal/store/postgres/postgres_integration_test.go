package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/adibratta/my-pos/internal/domain"
)

func TestCommitSaleAtomicity(t *testing.T) {
	databaseURL := os.Getenv("MYPOS_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set MYPOS_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	stamp := time.Now().UnixNano()
	productID := fmt.Sprintf("prd-it-%d", stamp)
	txID := fmt.Sprintf("trx-it-%d", stamp)
	customerID := fmt.Sprintf("cus-it-%d", stamp)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, txID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, customerID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	})

	if _, err := s.AddProduct(ctx, domain.Product{
		ID:    productID,
		Name:  "Kopi IT",
		Price: 18000,
		Cost:  10000,
		Stock: 10,
		Type:  domain.TypeReady,
	}); err != nil {
		t.Fatalf("add product: %v", err)
	}

	tx := domain.Transaction{
		ID:   txID,
		Date: time.Now(),
		Items: []domain.TransactionItem{
			{ProductID: productID, Name: "Kopi IT", Price: 18000, Quantity: 3, Subtotal: 54000, Type: domain.TypeReady},
		},
		Total:         54000,
		Profit:        24000,
		CustomerName:  "Budi IT",
		CustomerPhone: "0812",
		PaymentMethod: domain.PaymentCash,
		IsPreOrder:    true,
	}
	customer := &domain.Customer{ID: customerID, Name: "Budi IT", Phone: "0812", Address: "Jakarta"}

	if _, err := s.CommitSale(ctx, tx, customer); err != nil {
		t.Fatalf("commit sale: %v", err)
	}

	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.Stock != 7 {
		t.Fatalf("expected stock 7 after sale, got %d", product.Stock)
	}

	txs, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	found := false
	for _, got := range txs {
		if got.ID != txID {
			continue
		}
		found = true
		if len(got.Items) != 1 || got.Items[0].Quantity != 3 {
			t.Fatalf("unexpected items round-trip: %+v", got.Items)
		}
		if !got.IsPreOrder {
			t.Fatalf("expected pre-order flag to survive")
		}
	}
	if !found {
		t.Fatalf("committed transaction not listed")
	}

	customers, err := s.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	found = false
	for _, got := range customers {
		if got.ID == customerID {
			found = true
		}
	}
	if !found {
		t.Fatalf("customer not inserted with sale")
	}

	// Same transaction id again must fail and leave stock untouched.
	if _, err := s.CommitSale(ctx, tx, nil); err == nil {
		t.Fatalf("expected duplicate commit to fail")
	}
	product, err = s.GetProduct(ctx, productID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.Stock != 7 {
		t.Fatalf("expected stock unchanged after failed duplicate, got %d", product.Stock)
	}
}
