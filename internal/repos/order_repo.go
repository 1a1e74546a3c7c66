package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"marketd/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Insert writes the order header and all line items in the caller's
// transaction.
func (r *OrderRepo) Insert(e sqlx.Ext, buyerSub string, items []domain.OrderItem) (domain.Order, error) {
	o := domain.Order{
		ID:        uuid.NewString(),
		BuyerSub:  buyerSub,
		CreatedAt: now(),
		Items:     items,
	}
	if _, err := e.Exec(`INSERT INTO orders(id, buyer_sub, created_at) VALUES(?,?,?)`,
		o.ID, o.BuyerSub, o.CreatedAt); err != nil {
		return domain.Order{}, err
	}
	for _, it := range items {
		if _, err := e.Exec(`INSERT INTO order_items(order_id, product_id, qty) VALUES(?,?,?)`,
			o.ID, it.ProductID, it.Qty); err != nil {
			return domain.Order{}, err
		}
	}
	return o, nil
}

// ListByBuyer returns the buyer's orders newest first, items attached.
func (r *OrderRepo) ListByBuyer(buyerSub string) ([]domain.Order, error) {
	var orders []domain.Order
	if err := r.db.Select(&orders, `SELECT id, buyer_sub, created_at FROM orders
		WHERE buyer_sub = ? ORDER BY created_at DESC`, buyerSub); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	query, args, err := sqlx.In(`SELECT order_id, product_id, qty FROM order_items
		WHERE order_id IN (?) ORDER BY product_id`, ids)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		OrderID   string `db:"order_id"`
		ProductID string `db:"product_id"`
		Qty       int    `db:"qty"`
	}
	if err := r.db.Select(&rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	byOrder := make(map[string][]domain.OrderItem, len(orders))
	for _, row := range rows {
		byOrder[row.OrderID] = append(byOrder[row.OrderID], domain.OrderItem{ProductID: row.ProductID, Qty: row.Qty})
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return orders, nil
}
