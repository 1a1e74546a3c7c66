package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"marketd/internal/domain"
	"marketd/internal/repos"
)

// testDB opens an in-memory store with the real schema and the seeded
// reference categories (electronics, books, clothing).
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// approveSeller writes an Approved ledger entry for (seller, category).
func approveSeller(t *testing.T, db *sqlx.DB, sellerSub, categoryID string) {
	t.Helper()
	approvals := repos.NewApprovalRepo(db)
	req, err := approvals.Insert(sellerSub, categoryID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := approvals.Decide(req.ID, domain.StatusApproved); err != nil {
		t.Fatal(err)
	}
}

// mustProduct inserts a product row directly.
func mustProduct(t *testing.T, db *sqlx.DB, sellerSub, categoryID, name string, price float64, stock int) domain.Product {
	t.Helper()
	p, err := repos.NewProductRepo(db).Insert(db, sellerSub, categoryID, name, price, stock)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func stockOf(t *testing.T, db *sqlx.DB, productID string) int {
	t.Helper()
	p, err := repos.NewProductRepo(db).Get(productID)
	if err != nil {
		t.Fatal(err)
	}
	return p.StockQty
}
