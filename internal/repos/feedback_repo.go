package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"marketd/internal/domain"
)

type FeedbackRepo struct{ db *sqlx.DB }

func NewFeedbackRepo(db *sqlx.DB) *FeedbackRepo { return &FeedbackRepo{db: db} }

// Insert relies on the (product_id, buyer_sub) unique index; callers
// translate the violation into a Conflict.
func (r *FeedbackRepo) Insert(productID, buyerSub string, rating int, comment string) (domain.Feedback, error) {
	f := domain.Feedback{
		ID:        uuid.NewString(),
		ProductID: productID,
		BuyerSub:  buyerSub,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now(),
	}
	_, err := r.db.Exec(`INSERT INTO feedback(id, product_id, buyer_sub, rating, comment, created_at)
		VALUES(?,?,?,?,?,?)`, f.ID, f.ProductID, f.BuyerSub, f.Rating, f.Comment, f.CreatedAt)
	return f, err
}

func (r *FeedbackRepo) ListByProduct(productID string) ([]domain.Feedback, error) {
	var out []domain.Feedback
	err := r.db.Select(&out, `SELECT id, product_id, buyer_sub, rating, comment, created_at
		FROM feedback WHERE product_id = ? ORDER BY created_at DESC`, productID)
	return out, err
}

// ListForSeller returns feedback across all of the seller's products.
func (r *FeedbackRepo) ListForSeller(sellerSub string) ([]domain.Feedback, error) {
	var out []domain.Feedback
	err := r.db.Select(&out, `
		SELECT f.id, f.product_id, f.buyer_sub, f.rating, f.comment, f.created_at
		FROM feedback f
		JOIN products p ON p.id = f.product_id
		WHERE p.seller_sub = ?
		ORDER BY f.created_at DESC`, sellerSub)
	return out, err
}
