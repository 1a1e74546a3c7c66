package services

import (
	"sort"

	"github.com/jmoiron/sqlx"

	"marketd/internal/domain"
	"marketd/internal/repos"
)

// OrderService is the inventory/order engine. Placing an order merges
// duplicate lines, validates every line against current stock and
// decrements inside a single transaction; a shortfall or missing product
// aborts before any write sticks, so stock can never go negative and no
// partial order is ever visible.
type OrderService struct {
	db       *sqlx.DB
	Products *repos.ProductRepo
	Orders   *repos.OrderRepo
}

func NewOrderService(db *sqlx.DB, products *repos.ProductRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{db: db, Products: products, Orders: orders}
}

// OrderLine is one requested line before merging.
type OrderLine struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

func (s *OrderService) Place(buyerSub string, lines []OrderLine) (domain.Order, error) {
	if buyerSub == "" {
		return domain.Order{}, domain.Unauthenticated("missing subject")
	}
	if len(lines) == 0 {
		return domain.Order{}, domain.Validation("order must contain items")
	}

	merged, err := mergeLines(lines)
	if err != nil {
		return domain.Order{}, err
	}

	var out domain.Order
	err = withRetry(func() error {
		o, err := s.placeOnce(buyerSub, merged)
		if err != nil {
			return err
		}
		out = o
		return nil
	})
	return out, err
}

// mergeLines sums quantities per product and rejects non-positive totals.
// The result is sorted by product id so every order acquires its row
// updates in the same stable order.
func mergeLines(lines []OrderLine) ([]domain.OrderItem, error) {
	byProduct := make(map[string]int, len(lines))
	for _, l := range lines {
		if l.ProductID == "" {
			return nil, domain.Validation("productId is required on every item")
		}
		byProduct[l.ProductID] += l.Qty
	}

	merged := make([]domain.OrderItem, 0, len(byProduct))
	for id, qty := range byProduct {
		if qty <= 0 {
			return nil, domain.ValidationF("qty must be > 0", map[string]any{"productId": id})
		}
		merged = append(merged, domain.OrderItem{ProductID: id, Qty: qty})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged, nil
}

// placeOnce runs one attempt of the atomic validate-and-decrement unit of
// work. A guarded decrement that fails means stock moved between the read
// and the write; that surfaces as a transient and the caller retries the
// whole attempt against fresh state.
func (s *OrderService) placeOnce(buyerSub string, items []domain.OrderItem) (domain.Order, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return domain.Order{}, storeErr(err)
	}
	defer func() { _ = tx.Rollback() }()

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	products, err := s.Products.LoadForOrder(tx, ids)
	if err != nil {
		return domain.Order{}, storeErr(err)
	}

	if len(products) != len(ids) {
		found := make(map[string]bool, len(products))
		for _, p := range products {
			found[p.ID] = true
		}
		var missing []string
		for _, id := range ids {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		return domain.Order{}, domain.RuleViolation("unknown product id(s)", map[string]any{"missing": missing})
	}

	stock := make(map[string]int, len(products))
	for _, p := range products {
		stock[p.ID] = p.StockQty
	}
	for _, it := range items {
		if stock[it.ProductID] < it.Qty {
			return domain.Order{}, domain.RuleViolation("insufficient stock", map[string]any{
				"productId": it.ProductID,
				"available": stock[it.ProductID],
				"requested": it.Qty,
			})
		}
	}

	for _, it := range items {
		ok, err := s.Products.DecrementStock(tx, it.ProductID, it.Qty)
		if err != nil {
			return domain.Order{}, storeErr(err)
		}
		if !ok {
			return domain.Order{}, domain.Transient("stock moved during order placement")
		}
	}

	order, err := s.Orders.Insert(tx, buyerSub, items)
	if err != nil {
		return domain.Order{}, storeErr(err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Order{}, storeErr(err)
	}
	return order, nil
}

// ListMine returns the buyer's order history, newest first.
func (s *OrderService) ListMine(buyerSub string) ([]domain.Order, error) {
	if buyerSub == "" {
		return nil, domain.Unauthenticated("missing subject")
	}
	out, err := s.Orders.ListByBuyer(buyerSub)
	return out, storeErr(err)
}
