// Package postgres is the durable Repository used when DATABASE_URL is set.
// Line items are stored as a JSONB document on the transaction row; the sale
// commit runs in a serializable transaction so the log append, stock
// decrements and the optional customer insert land together or not at all.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/adibratta/my-pos/internal/domain"
	"github.com/adibratta/my-pos/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.seedIfEmpty(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price BIGINT NOT NULL,
			cost BIGINT NOT NULL,
			stock INT NOT NULL,
			type TEXT NOT NULL,
			po_deadline TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			date TIMESTAMPTZ NOT NULL,
			items JSONB NOT NULL,
			total BIGINT NOT NULL,
			profit BIGINT NOT NULL,
			customer_name TEXT NOT NULL,
			customer_phone TEXT NOT NULL DEFAULT '',
			customer_address TEXT NOT NULL DEFAULT '',
			payment_method TEXT NOT NULL,
			is_preorder BOOLEAN NOT NULL DEFAULT false
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id TEXT PRIMARY KEY,
			date TIMESTAMPTZ NOT NULL,
			description TEXT NOT NULL,
			amount BIGINT NOT NULL,
			category TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS store_settings (
			id INT PRIMARY KEY CHECK (id = 1),
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			logo TEXT NOT NULL DEFAULT '',
			pin TEXT NOT NULL,
			currency_symbol TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// seedIfEmpty installs the starter catalog and default settings the first
// time the database is used, matching the memory store's seeded variant.
func (s *Store) seedIfEmpty(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		for _, p := range store.StarterCatalog(time.Now()) {
			if _, err := s.AddProduct(ctx, p); err != nil {
				return err
			}
		}
	}

	defaults := store.DefaultSettings()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO store_settings (id, name, address, logo, pin, currency_symbol)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, defaults.Name, defaults.Address, defaults.Logo, defaults.PIN, defaults.CurrencySymbol)
	return err
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, price, cost, stock, type, po_deadline, image
		FROM products
		ORDER BY name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 64)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Cost, &p.Stock, &p.Type, &p.PODeadline, &p.Image); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, price, cost, stock, type, po_deadline, image
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Cost, &p.Stock, &p.Type, &p.PODeadline, &p.Image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) AddProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" {
		return nil, store.ErrInvalidSale
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price, cost, stock, type, po_deadline, image)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, product.ID, product.Name, product.Description, product.Price, product.Cost, product.Stock, product.Type, product.PODeadline, product.Image)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidSale
		}
		return nil, err
	}

	created := product
	return &created, nil
}

func (s *Store) PutProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" {
		return nil, store.ErrInvalidSale
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, cost = $5, stock = $6,
			type = $7, po_deadline = $8, image = $9, updated_at = now()
		WHERE id = $1
	`, product.ID, product.Name, product.Description, product.Price, product.Cost, product.Stock, product.Type, product.PODeadline, product.Image)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, items, total, profit, customer_name, customer_phone,
			customer_address, payment_method, is_preorder
		FROM transactions
		ORDER BY date DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := make([]domain.Transaction, 0, 128)
	for rows.Next() {
		var tx domain.Transaction
		var rawItems []byte
		if err := rows.Scan(&tx.ID, &tx.Date, &rawItems, &tx.Total, &tx.Profit, &tx.CustomerName, &tx.CustomerPhone, &tx.CustomerAddress, &tx.PaymentMethod, &tx.IsPreOrder); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(rawItems, &tx.Items); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}

// CommitSale appends the sale, decrements READY stock for each line (never
// below zero) and inserts the customer record when one is supplied. All of
// it happens in a single serializable transaction.
func (s *Store) CommitSale(ctx context.Context, tx domain.Transaction, customer *domain.Customer) (*domain.Transaction, error) {
	if tx.ID == "" || len(tx.Items) == 0 {
		return nil, store.ErrInvalidSale
	}
	if customer != nil && (customer.ID == "" || customer.Name == "") {
		return nil, store.ErrInvalidSale
	}

	rawItems, err := json.Marshal(tx.Items)
	if err != nil {
		return nil, err
	}

	pgTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = pgTx.Rollback() }()

	_, err = pgTx.ExecContext(ctx, `
		INSERT INTO transactions (id, date, items, total, profit, customer_name,
			customer_phone, customer_address, payment_method, is_preorder)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, tx.ID, tx.Date, rawItems, tx.Total, tx.Profit, tx.CustomerName, tx.CustomerPhone, tx.CustomerAddress, tx.PaymentMethod, tx.IsPreOrder)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidSale
		}
		return nil, err
	}

	for _, item := range tx.Items {
		if item.Type != domain.TypeReady {
			continue
		}
		_, err = pgTx.ExecContext(ctx, `
			UPDATE products
			SET stock = GREATEST(stock - $2, 0), updated_at = now()
			WHERE id = $1
		`, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
	}

	if customer != nil {
		_, err = pgTx.ExecContext(ctx, `
			INSERT INTO customers (id, name, phone, email, address)
			VALUES ($1,$2,$3,$4,$5)
		`, customer.ID, customer.Name, customer.Phone, customer.Email, customer.Address)
		if err != nil {
			return nil, err
		}
	}

	if err := pgTx.Commit(); err != nil {
		return nil, err
	}

	committed := tx
	return &committed, nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, phone, email, address
		FROM customers
		ORDER BY name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0, 32)
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *Store) AddCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	if customer.ID == "" || customer.Name == "" {
		return nil, store.ErrInvalidSale
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, phone, email, address)
		VALUES ($1,$2,$3,$4,$5)
	`, customer.ID, customer.Name, customer.Phone, customer.Email, customer.Address)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidSale
		}
		return nil, err
	}

	created := customer
	return &created, nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, description, amount, category
		FROM expenses
		ORDER BY date DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]domain.Expense, 0, 32)
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.Date, &e.Description, &e.Amount, &e.Category); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *Store) AddExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	if expense.ID == "" || expense.Description == "" || expense.Amount < 1 {
		return nil, store.ErrInvalidSale
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, date, description, amount, category)
		VALUES ($1,$2,$3,$4,$5)
	`, expense.ID, expense.Date, expense.Description, expense.Amount, expense.Category)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidSale
		}
		return nil, err
	}

	created := expense
	return &created, nil
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) GetSettings(ctx context.Context) (*domain.StoreSettings, error) {
	var settings domain.StoreSettings
	err := s.db.QueryRowContext(ctx, `
		SELECT name, address, logo, pin, currency_symbol
		FROM store_settings
		WHERE id = 1
	`).Scan(&settings.Name, &settings.Address, &settings.Logo, &settings.PIN, &settings.CurrencySymbol)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

func (s *Store) PutSettings(ctx context.Context, settings domain.StoreSettings) (*domain.StoreSettings, error) {
	if settings.Name == "" || settings.PIN == "" {
		return nil, store.ErrInvalidSale
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO store_settings (id, name, address, logo, pin, currency_symbol)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id)
		DO UPDATE SET name = EXCLUDED.name, address = EXCLUDED.address,
			logo = EXCLUDED.logo, pin = EXCLUDED.pin,
			currency_symbol = EXCLUDED.currency_symbol
	`, settings.Name, settings.Address, settings.Logo, settings.PIN, settings.CurrencySymbol)
	if err != nil {
		return nil, err
	}

	saved := settings
	return &saved, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
