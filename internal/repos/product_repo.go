package repos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"marketd/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, seller_sub, category_id, name, price, stock_qty, active, created_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

// GetActive returns nil when the product is missing or deactivated.
func (r *ProductRepo) GetActive(id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ? AND active = 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Exists(id string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ProductRepo) Insert(e sqlx.Ext, sellerSub, categoryID, name string, price float64, stockQty int) (domain.Product, error) {
	p := domain.Product{
		ID:         uuid.NewString(),
		SellerSub:  sellerSub,
		CategoryID: categoryID,
		Name:       name,
		Price:      price,
		StockQty:   stockQty,
		Active:     true,
		CreatedAt:  now(),
	}
	_, err := e.Exec(`INSERT INTO products(id, seller_sub, category_id, name, price, stock_qty, active, created_at)
		VALUES(?,?,?,?,?,?,1,?)`,
		p.ID, p.SellerSub, p.CategoryID, p.Name, p.Price, p.StockQty, p.CreatedAt)
	return p, err
}

// UpdatePriceStock is the owning seller's absolute set. Returns false
// when no product matches (wrong id or someone else's product).
func (r *ProductRepo) UpdatePriceStock(sellerSub, id string, price float64, stockQty int) (bool, error) {
	res, err := r.db.Exec(`UPDATE products SET price = ?, stock_qty = ?
		WHERE id = ? AND seller_sub = ?`, price, stockQty, id, sellerSub)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *ProductRepo) ListBySeller(sellerSub string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products
		WHERE seller_sub = ? ORDER BY created_at DESC`, sellerSub)
	return out, err
}

// ListVisible implements the catalog visibility filter: a product is
// public only while its (seller, category) pair holds an Approved ledger
// entry.
func (r *ProductRepo) ListVisible() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
		SELECT `+productCols+` FROM products p
		WHERE EXISTS (
			SELECT 1 FROM approval_requests r
			WHERE r.status = ?
			  AND r.seller_sub = p.seller_sub
			  AND r.category_id = p.category_id
		)
		ORDER BY p.created_at DESC`, domain.StatusApproved)
	return out, err
}

func (r *ProductRepo) CountActive(categoryID string) (int, error) {
	var n int
	var err error
	if categoryID == "" {
		err = r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE active = 1`)
	} else {
		err = r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE active = 1 AND category_id = ?`, categoryID)
	}
	return n, err
}

func (r *ProductRepo) ListActive(categoryID string, offset, limit int) ([]domain.Product, error) {
	var out []domain.Product
	var err error
	if categoryID == "" {
		err = r.db.Select(&out, `SELECT `+productCols+` FROM products
			WHERE active = 1 ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	} else {
		err = r.db.Select(&out, `SELECT `+productCols+` FROM products
			WHERE active = 1 AND category_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`,
			categoryID, limit, offset)
	}
	return out, err
}

// LoadForOrder reads the rows an order touches, inside the order's
// transaction, in ascending id order.
func (r *ProductRepo) LoadForOrder(e sqlx.Ext, ids []string) ([]domain.Product, error) {
	query, args, err := sqlx.In(`SELECT `+productCols+` FROM products WHERE id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	var out []domain.Product
	err = sqlx.Select(e, &out, e.Rebind(query), args...)
	return out, err
}

// DecrementStock subtracts qty only while enough stock remains. A false
// return means the guard failed: stock changed underneath the caller and
// the whole order transaction must abort.
func (r *ProductRepo) DecrementStock(e sqlx.Ext, id string, qty int) (bool, error) {
	res, err := e.Exec(`UPDATE products SET stock_qty = stock_qty - ?
		WHERE id = ? AND stock_qty >= ?`, qty, id, qty)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
