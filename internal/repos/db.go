package repos

import (
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// An in-memory sqlite DB exists per connection; force a single one so
	// the schema and the data stay on the same handle.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed reference categories if DB is empty (idempotent; safe on every start)
	if err := seedCategories(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;
PRAGMA busy_timeout = 5000;

-- Categories (reference data; uniqueness of names is enforced at
-- proposal-approval time, the index is a backstop)
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Approval ledger: one row per (seller, category)
CREATE TABLE IF NOT EXISTS approval_requests(
  id TEXT PRIMARY KEY,
  seller_sub TEXT NOT NULL,
  category_id TEXT NOT NULL REFERENCES categories(id),
  status TEXT NOT NULL DEFAULT 'Pending' CHECK (status IN ('Pending','Approved','Rejected')),
  created_at TEXT NOT NULL,
  decided_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_approvals_seller_category
  ON approval_requests(seller_sub, category_id);
CREATE INDEX IF NOT EXISTS idx_approvals_status ON approval_requests(status);

CREATE TABLE IF NOT EXISTS category_proposals(
  id TEXT PRIMARY KEY,
  seller_sub TEXT NOT NULL,
  name TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'Pending' CHECK (status IN ('Pending','Approved','Rejected')),
  created_at TEXT NOT NULL,
  reviewed_at TEXT,
  reviewed_by TEXT,
  rejection_reason TEXT,
  created_category_id TEXT
);
CREATE INDEX IF NOT EXISTS idx_category_proposals_pending
  ON category_proposals(seller_sub, name, status);

CREATE TABLE IF NOT EXISTS product_proposals(
  id TEXT PRIMARY KEY,
  seller_sub TEXT NOT NULL,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  initial_stock_qty INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'Pending' CHECK (status IN ('Pending','Approved','Rejected')),
  created_at TEXT NOT NULL,
  reviewed_at TEXT,
  reviewed_by TEXT,
  rejection_reason TEXT,
  created_product_id TEXT
);
CREATE INDEX IF NOT EXISTS idx_product_proposals_pending
  ON product_proposals(seller_sub, category_id, name, status);

CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  seller_sub TEXT NOT NULL,
  category_id TEXT NOT NULL REFERENCES categories(id),
  name TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price > 0),
  stock_qty INTEGER NOT NULL DEFAULT 0 CHECK (stock_qty >= 0),
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_seller   ON products(seller_sub);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);

CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  buyer_sub TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer_sub);

CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  qty INTEGER NOT NULL CHECK (qty >= 1),
  PRIMARY KEY (order_id, product_id)
);

CREATE TABLE IF NOT EXISTS feedback(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id),
  buyer_sub TEXT NOT NULL,
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  comment TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_feedback_product_buyer
  ON feedback(product_id, buyer_sub);
`
	_, err := db.Exec(schema)
	return err
}

func seedCategories(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting reference categories")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name,created_at) VALUES
	  ('electronics','Electronics',?),
	  ('books','Books',?),
	  ('clothing','Clothing',?)`, now(), now(), now())
	return tx.Commit()
}

// timeLayout is fixed-width so lexicographic ordering of created_at
// matches chronological ordering, and sqlite datetime() still parses it.
const timeLayout = "2006-01-02 15:04:05.000000000"

func now() string { return time.Now().UTC().Format(timeLayout) }

// isUniqueViolation classifies modernc sqlite constraint errors so they
// can surface as a domain-level Conflict instead of a raw driver error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isBusy reports lock/contention errors that are safe to retry.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database table is locked")
}

// UniqueViolation and Busy are re-exported checks for the service layer.
func UniqueViolation(err error) bool { return isUniqueViolation(err) }
func Busy(err error) bool            { return isBusy(err) }
