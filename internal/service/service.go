// Package service is the single state container the presentation layer
// talks to: it loads snapshots from the record store, mediates every
// mutation, and owns the checkout engine that turns a cart into a committed
// transaction.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/adibratta/my-pos/internal/advisor"
	"github.com/adibratta/my-pos/internal/cart"
	"github.com/adibratta/my-pos/internal/catalog"
	"github.com/adibratta/my-pos/internal/domain"
	"github.com/adibratta/my-pos/internal/report"
	"github.com/adibratta/my-pos/internal/store"
	"github.com/adibratta/my-pos/internal/xid"
)

type Service struct {
	repo    store.Repository
	advisor advisor.Advisor
}

func New(repo store.Repository, adv advisor.Advisor) *Service {
	if adv == nil {
		adv = advisor.Noop{}
	}
	return &Service{repo: repo, advisor: adv}
}

// Products returns the full catalog. A failed read degrades to an empty
// snapshot so the app keeps serving; the failure is logged once.
func (s *Service) Products(ctx context.Context) []domain.Product {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		log.Printf("[service] WARN: product list unavailable: %v", err)
		return []domain.Product{}
	}
	return products
}

// OfferableProducts is the cashier-screen view: search + category filter +
// availability cutoff applied.
func (s *Service) OfferableProducts(ctx context.Context, query string, category string) []domain.Product {
	return catalog.Filter(s.Products(ctx), query, catalog.ParseCategory(category), time.Now())
}

func (s *Service) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := validateProduct(&product); err != nil {
		return domain.Product{}, err
	}
	if product.ID == "" {
		product.ID = xid.New("prd")
	}

	created, err := s.repo.AddProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if product.ID == "" {
		return domain.Product{}, store.ErrNotFound
	}
	if err := validateProduct(&product); err != nil {
		return domain.Product{}, err
	}

	updated, err := s.repo.PutProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}
	return *updated, nil
}

// DeleteProduct drops the catalog entry. Transaction history is untouched:
// line items carry their own snapshots.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.DeleteProduct(ctx, id)
}

// Transactions returns the sale log, most recent first.
func (s *Service) Transactions(ctx context.Context) []domain.Transaction {
	txs, err := s.repo.ListTransactions(ctx)
	if err != nil {
		log.Printf("[service] WARN: transaction log unavailable: %v", err)
		return []domain.Transaction{}
	}
	return txs
}

// PreOrderTransactions filters the log down to sales containing pre-order
// items, for the admin pre-order tab.
func (s *Service) PreOrderTransactions(ctx context.Context) []domain.Transaction {
	all := s.Transactions(ctx)
	result := make([]domain.Transaction, 0, len(all))
	for _, tx := range all {
		if tx.IsPreOrder {
			result = append(result, tx)
		}
	}
	return result
}

func (s *Service) Customers(ctx context.Context) []domain.Customer {
	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		log.Printf("[service] WARN: customer list unavailable: %v", err)
		return []domain.Customer{}
	}
	return customers
}

func (s *Service) AddCustomer(ctx context.Context, req domain.CustomerCreateRequest) (domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, &domain.ValidationError{Fields: []string{"name"}}
	}

	customer := domain.Customer{
		ID:      xid.New("cus"),
		Name:    name,
		Phone:   strings.TrimSpace(req.Phone),
		Email:   strings.TrimSpace(req.Email),
		Address: strings.TrimSpace(req.Address),
	}
	created, err := s.repo.AddCustomer(ctx, customer)
	if err != nil {
		return domain.Customer{}, err
	}
	return *created, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	return s.repo.DeleteCustomer(ctx, id)
}

func (s *Service) Expenses(ctx context.Context) []domain.Expense {
	expenses, err := s.repo.ListExpenses(ctx)
	if err != nil {
		log.Printf("[service] WARN: expense list unavailable: %v", err)
		return []domain.Expense{}
	}
	return expenses
}

func (s *Service) AddExpense(ctx context.Context, req domain.ExpenseCreateRequest) (domain.Expense, error) {
	missing := make([]string, 0, 2)
	if strings.TrimSpace(req.Description) == "" {
		missing = append(missing, "description")
	}
	if req.Amount <= 0 {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return domain.Expense{}, &domain.ValidationError{Fields: missing}
	}

	date := time.Now()
	if raw := strings.TrimSpace(req.Date); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return domain.Expense{}, &domain.ValidationError{Fields: []string{"date"}}
		}
		date = parsed
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "General"
	}

	expense := domain.Expense{
		ID:          xid.New("exp"),
		Date:        date,
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Category:    category,
	}
	created, err := s.repo.AddExpense(ctx, expense)
	if err != nil {
		return domain.Expense{}, err
	}
	return *created, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	return s.repo.DeleteExpense(ctx, id)
}

// Settings returns the singleton settings record, falling back to the
// built-in defaults when the store cannot be read.
func (s *Service) Settings(ctx context.Context) domain.StoreSettings {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		log.Printf("[service] WARN: settings unavailable, serving defaults: %v", err)
		return store.DefaultSettings()
	}
	return *settings
}

func (s *Service) UpdateSettings(ctx context.Context, settings domain.StoreSettings) (domain.StoreSettings, error) {
	missing := make([]string, 0, 2)
	if strings.TrimSpace(settings.Name) == "" {
		missing = append(missing, "name")
	}
	if len(settings.PIN) != 6 {
		missing = append(missing, "pin")
	}
	if len(missing) > 0 {
		return domain.StoreSettings{}, &domain.ValidationError{Fields: missing}
	}

	updated, err := s.repo.PutSettings(ctx, settings)
	if err != nil {
		return domain.StoreSettings{}, err
	}
	return *updated, nil
}

// VerifyPIN compares the entered code against the stored admin PIN,
// bit for bit. This is a convenience lock, not a security boundary.
func (s *Service) VerifyPIN(ctx context.Context, pin string) bool {
	return pin != "" && pin == s.Settings(ctx).PIN
}

// MonthlyReport derives the financial aggregates for one "2006-01" period
// from the transaction and expense logs.
func (s *Service) MonthlyReport(ctx context.Context, period string) (domain.MonthlyReport, error) {
	return report.Monthly(period, s.Transactions(ctx), s.Expenses(ctx))
}

// DraftDescription asks the advisor for a product description. Failures are
// flattened to an empty suggestion; this never blocks anything.
func (s *Service) DraftDescription(ctx context.Context, name string, productType domain.ProductType) string {
	text, err := s.advisor.DraftDescription(ctx, name, productType)
	if err != nil {
		if !errors.Is(err, advisor.ErrUnavailable) {
			log.Printf("[service] WARN: advisor description failed: %v", err)
		}
		return ""
	}
	return text
}

// AnalyzeSales summarizes the period's transactions through the advisor.
// Like DraftDescription, a failure is just an empty suggestion.
func (s *Service) AnalyzeSales(ctx context.Context, period string) string {
	if _, err := time.Parse("2006-01", period); err != nil {
		return ""
	}
	summaries := report.Summaries(period, s.Transactions(ctx))
	text, err := s.advisor.SummarizeSales(ctx, summaries, period)
	if err != nil {
		if !errors.Is(err, advisor.ErrUnavailable) {
			log.Printf("[service] WARN: advisor analysis failed: %v", err)
		}
		return ""
	}
	return text
}

func validateProduct(p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)

	missing := make([]string, 0, 3)
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.Price < 0 {
		missing = append(missing, "price")
	}
	if p.Cost < 0 {
		missing = append(missing, "cost")
	}
	if p.Stock < 0 {
		missing = append(missing, "stock")
	}
	switch p.Type {
	case domain.TypeReady:
		p.PODeadline = ""
	case domain.TypePreOrder:
		if raw := strings.TrimSpace(p.PODeadline); raw != "" {
			if _, err := time.Parse("2006-01-02", raw); err != nil {
				missing = append(missing, "poDeadline")
			}
		} else {
			missing = append(missing, "poDeadline")
		}
	default:
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Fields: missing}
	}
	return nil
}

// String used in log lines when a commit is retried after a store failure.
func describeCart(c *cart.Cart) string {
	return fmt.Sprintf("%d line(s), total %d", len(c.Lines()), c.Total())
}
