package domain

import (
	"strings"
	"time"
)

type ProductType string

const (
	TypeReady    ProductType = "READY"
	TypePreOrder ProductType = "PO"
)

type PaymentMethod string

// CASH is the only method the checkout flow offers; QRIS and TRANSFER are
// reserved wire values kept for forward compatibility of stored records.
const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentQRIS     PaymentMethod = "QRIS"
	PaymentTransfer PaymentMethod = "TRANSFER"
)

// GenericCustomerName is recorded on transactions where no customer details
// were collected. It doubles as the sentinel that suppresses customer record
// creation during pre-order checkout.
const GenericCustomerName = "Pelanggan Umum"

// Product is a sellable catalog item. Cost is the purchase cost basis used
// only for profit reporting and is never exposed on the cashier screen.
// Stock is meaningful for READY products only; PODeadline ("2006-01-02") is
// required for PO products and ignored otherwise.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       int64       `json:"price"`
	Cost        int64       `json:"cost"`
	Stock       int         `json:"stock"`
	Type        ProductType `json:"type"`
	PODeadline  string      `json:"poDeadline,omitempty"`
	Image       string      `json:"image,omitempty"`
}

// TransactionItem is a denormalized snapshot of a product at sale time, so
// later catalog edits or deletions never rewrite history.
type TransactionItem struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Price     int64       `json:"price"`
	Quantity  int         `json:"quantity"`
	Subtotal  int64       `json:"subtotal"`
	Type      ProductType `json:"type"`
}

// Transaction is the immutable record of a completed sale. Total and Profit
// are computed once at commit time from the cart snapshot and are never
// recomputed, even if product price or cost changes later.
type Transaction struct {
	ID              string            `json:"id"`
	Date            time.Time         `json:"date"`
	Items           []TransactionItem `json:"items"`
	Total           int64             `json:"total"`
	Profit          int64             `json:"profit"`
	CustomerName    string            `json:"customerName"`
	CustomerPhone   string            `json:"customerPhone,omitempty"`
	CustomerAddress string            `json:"customerAddress,omitempty"`
	PaymentMethod   PaymentMethod     `json:"paymentMethod"`
	IsPreOrder      bool              `json:"isPO"`
}

type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type Expense struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	Category    string    `json:"category"`
}

// StoreSettings is a singleton record. PIN is a 6-character shared secret
// compared literally by the admin gate; it is a convenience lock, not a
// credential.
type StoreSettings struct {
	Name           string `json:"name"`
	Address        string `json:"address"`
	Logo           string `json:"logo"`
	PIN            string `json:"pin"`
	CurrencySymbol string `json:"currencySymbol"`
}

// CustomerInfo is the pre-order contact block collected during checkout.
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// IsGeneric reports whether the info is absent or the generic placeholder,
// in which case no Customer record is created at commit.
func (c CustomerInfo) IsGeneric() bool {
	name := strings.TrimSpace(c.Name)
	return name == "" || name == GenericCustomerName
}

type CheckoutLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CheckoutRequest struct {
	Items    []CheckoutLine `json:"items"`
	Customer *CustomerInfo  `json:"customer,omitempty"`
}

type ExpenseCreateRequest struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Category    string `json:"category"`
}

type CustomerCreateRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type UnlockRequest struct {
	PIN string `json:"pin"`
}

type UnlockResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
}

type DailyRevenue struct {
	Day     int   `json:"day"`
	Revenue int64 `json:"revenue"`
}

// MonthlyReport aggregates the transaction and expense logs for one calendar
// month. Derived on demand; never stored.
type MonthlyReport struct {
	Period       string         `json:"period"`
	Revenue      int64          `json:"revenue"`
	GrossProfit  int64          `json:"grossProfit"`
	ExpenseTotal int64          `json:"expenseTotal"`
	NetProfit    int64          `json:"netProfit"`
	Transactions int            `json:"transactions"`
	BestSeller   string         `json:"bestSeller"`
	Daily        []DailyRevenue `json:"daily"`
}

// TransactionSummary is the trimmed-down view handed to the AI advisor so
// prompts stay small.
type TransactionSummary struct {
	Date  string `json:"date"`
	Total int64  `json:"total"`
	Items string `json:"items"`
}

// ValidationError reports required fields that were missing or empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
