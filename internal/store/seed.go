package store

import (
	"time"

	"github.com/adibratta/my-pos/internal/domain"
)

// DefaultSettings is written on first run when the settings record is absent.
func DefaultSettings() domain.StoreSettings {
	return domain.StoreSettings{
		Name:           "Toko Suka Maju",
		Address:        "Jl. Merdeka No. 45, Jakarta",
		Logo:           "",
		PIN:            "123456",
		CurrencySymbol: "Rp",
	}
}

// StarterCatalog is seeded when the products collection is empty: two READY
// items and one pre-order item with a deadline six months out, so a fresh
// install has something to ring up.
func StarterCatalog(now time.Time) []domain.Product {
	return []domain.Product{
		{
			ID:          "prd-seed-1",
			Name:        "Kopi Susu Gula Aren",
			Description: "Kopi kekinian",
			Price:       18000,
			Cost:        10000,
			Stock:       50,
			Type:        domain.TypeReady,
		},
		{
			ID:          "prd-seed-2",
			Name:        "Croissant Butter",
			Description: "Renyah dan wangi",
			Price:       25000,
			Cost:        15000,
			Stock:       20,
			Type:        domain.TypeReady,
		},
		{
			ID:          "prd-seed-3",
			Name:        "Hampers Lebaran",
			Description: "Paket kue kering",
			Price:       150000,
			Cost:        100000,
			Stock:       10,
			Type:        domain.TypePreOrder,
			PODeadline:  now.AddDate(0, 6, 0).Format("2006-01-02"),
		},
	}
}
