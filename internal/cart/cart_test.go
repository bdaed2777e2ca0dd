package cart

import (
	"errors"
	"testing"

	"github.com/adibratta/my-pos/internal/domain"
)

func readyProduct(id string, price int64, cost int64, stock int) domain.Product {
	return domain.Product{
		ID:    id,
		Name:  "Produk " + id,
		Price: price,
		Cost:  cost,
		Stock: stock,
		Type:  domain.TypeReady,
	}
}

func preOrderProduct(id string, price int64, cost int64) domain.Product {
	return domain.Product{
		ID:         id,
		Name:       "Produk " + id,
		Price:      price,
		Cost:       cost,
		Type:       domain.TypePreOrder,
		PODeadline: "2026-12-31",
	}
}

func TestAddItemZeroStockFails(t *testing.T) {
	c := New()

	err := c.AddItem(readyProduct("prd-1", 18000, 10000, 0))
	if !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
	if !c.Empty() {
		t.Fatalf("expected cart to stay empty")
	}
}

func TestAddItemCapsAtStockCeiling(t *testing.T) {
	c := New()
	product := readyProduct("prd-1", 18000, 10000, 3)

	for i := 0; i < 4; i++ {
		if err := c.AddItem(product); err != nil {
			t.Fatalf("add %d failed: %v", i+1, err)
		}
	}

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Fatalf("expected quantity capped at 3, got %d", lines[0].Quantity)
	}
}

func TestAddItemPreOrderIgnoresStock(t *testing.T) {
	c := New()
	product := preOrderProduct("prd-po", 150000, 100000)

	for i := 0; i < 5; i++ {
		if err := c.AddItem(product); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	if got := c.Lines()[0].Quantity; got != 5 {
		t.Fatalf("expected quantity 5, got %d", got)
	}
	if !c.HasPreOrder() {
		t.Fatalf("expected HasPreOrder to be true")
	}
}

func TestChangeQuantityClampsAtBounds(t *testing.T) {
	c := New()
	product := readyProduct("prd-1", 18000, 10000, 5)
	if err := c.AddItem(product); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	c.ChangeQuantity("prd-1", -1)
	if got := c.Lines()[0].Quantity; got != 1 {
		t.Fatalf("expected quantity to stay at 1, got %d", got)
	}

	c.ChangeQuantity("prd-1", 10)
	if got := c.Lines()[0].Quantity; got != 1 {
		t.Fatalf("expected over-stock change to be ignored, got %d", got)
	}

	c.ChangeQuantity("prd-1", 4)
	if got := c.Lines()[0].Quantity; got != 5 {
		t.Fatalf("expected quantity 5, got %d", got)
	}

	c.ChangeQuantity("prd-missing", 1)
	if got := c.ItemCount(); got != 5 {
		t.Fatalf("expected unknown id to be a no-op, item count %d", got)
	}
}

func TestRemoveItemAndClear(t *testing.T) {
	c := New()
	if err := c.AddItem(readyProduct("prd-1", 18000, 10000, 5)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := c.AddItem(preOrderProduct("prd-po", 150000, 100000)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	c.RemoveItem("prd-1")
	if len(c.Lines()) != 1 {
		t.Fatalf("expected 1 line after remove")
	}

	c.Clear()
	if !c.Empty() {
		t.Fatalf("expected empty cart after clear")
	}
}

func TestTotalAndItemCount(t *testing.T) {
	c := New()
	coffee := readyProduct("prd-1", 18000, 10000, 50)
	croissant := readyProduct("prd-2", 25000, 15000, 20)

	if err := c.AddItem(coffee); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := c.AddItem(coffee); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := c.AddItem(croissant); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if got := c.Total(); got != 61000 {
		t.Fatalf("expected total 61000, got %d", got)
	}
	if got := c.ItemCount(); got != 3 {
		t.Fatalf("expected item count 3, got %d", got)
	}
	if c.HasPreOrder() {
		t.Fatalf("expected HasPreOrder to be false")
	}
}

func TestLinesReturnsCopy(t *testing.T) {
	c := New()
	if err := c.AddItem(readyProduct("prd-1", 18000, 10000, 5)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	lines := c.Lines()
	lines[0].Quantity = 99

	if got := c.Lines()[0].Quantity; got != 1 {
		t.Fatalf("expected internal line untouched, got %d", got)
	}
}
