package repos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"marketd/internal/domain"
)

// ProposalRepo persists both proposal kinds. The shared lifecycle columns
// (status, reviewed_at, reviewed_by, rejection_reason) are decided with
// the same guarded UPDATE pattern so a decision can never apply twice.
type ProposalRepo struct{ db *sqlx.DB }

func NewProposalRepo(db *sqlx.DB) *ProposalRepo { return &ProposalRepo{db: db} }

const categoryProposalCols = `id, seller_sub, name, status, created_at,
	reviewed_at, reviewed_by, rejection_reason, created_category_id`

const productProposalCols = `id, seller_sub, category_id, name, price, initial_stock_qty,
	status, created_at, reviewed_at, reviewed_by, rejection_reason, created_product_id`

// ---------- category proposals ----------

func (r *ProposalRepo) GetCategory(e sqlx.Ext, id string) (domain.CategoryProposal, error) {
	var p domain.CategoryProposal
	err := sqlx.Get(e, &p, `SELECT `+categoryProposalCols+` FROM category_proposals WHERE id = ?`, id)
	return p, err
}

// FindPendingCategory is the duplicate-submission guard key:
// (seller, trimmed name, Pending).
func (r *ProposalRepo) FindPendingCategory(sellerSub, name string) (*domain.CategoryProposal, error) {
	var p domain.CategoryProposal
	err := r.db.Get(&p, `SELECT `+categoryProposalCols+` FROM category_proposals
		WHERE seller_sub = ? AND name = ? AND status = ?`, sellerSub, name, domain.StatusPending)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProposalRepo) InsertCategory(sellerSub, name string) (domain.CategoryProposal, error) {
	p := domain.CategoryProposal{
		ID:        uuid.NewString(),
		SellerSub: sellerSub,
		Name:      name,
		Status:    domain.StatusPending,
		CreatedAt: now(),
	}
	_, err := r.db.Exec(`INSERT INTO category_proposals(id, seller_sub, name, status, created_at)
		VALUES(?,?,?,?,?)`, p.ID, p.SellerSub, p.Name, p.Status, p.CreatedAt)
	return p, err
}

// DecideCategory applies a terminal decision to a still-pending proposal.
// Returns false when someone else decided first.
func (r *ProposalRepo) DecideCategory(e sqlx.Ext, id, status, reviewedBy, rejectionReason, createdCategoryID string) (bool, error) {
	res, err := e.Exec(`UPDATE category_proposals
		SET status = ?, reviewed_at = ?, reviewed_by = ?,
		    rejection_reason = NULLIF(?, ''), created_category_id = NULLIF(?, '')
		WHERE id = ? AND status = ?`,
		status, now(), reviewedBy, rejectionReason, createdCategoryID, id, domain.StatusPending)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *ProposalRepo) ListPendingCategory() ([]domain.CategoryProposal, error) {
	var out []domain.CategoryProposal
	err := r.db.Select(&out, `SELECT `+categoryProposalCols+` FROM category_proposals
		WHERE status = ? ORDER BY created_at`, domain.StatusPending)
	return out, err
}

func (r *ProposalRepo) ListCategoryBySeller(sellerSub string) ([]domain.CategoryProposal, error) {
	var out []domain.CategoryProposal
	err := r.db.Select(&out, `SELECT `+categoryProposalCols+` FROM category_proposals
		WHERE seller_sub = ? ORDER BY created_at DESC`, sellerSub)
	return out, err
}

// ---------- product proposals ----------

func (r *ProposalRepo) GetProduct(e sqlx.Ext, id string) (domain.ProductProposal, error) {
	var p domain.ProductProposal
	err := sqlx.Get(e, &p, `SELECT `+productProposalCols+` FROM product_proposals WHERE id = ?`, id)
	return p, err
}

// FindPendingProduct guard key: (seller, category, trimmed name, Pending).
func (r *ProposalRepo) FindPendingProduct(sellerSub, categoryID, name string) (*domain.ProductProposal, error) {
	var p domain.ProductProposal
	err := r.db.Get(&p, `SELECT `+productProposalCols+` FROM product_proposals
		WHERE seller_sub = ? AND category_id = ? AND name = ? AND status = ?`,
		sellerSub, categoryID, name, domain.StatusPending)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProposalRepo) InsertProduct(sellerSub, categoryID, name string, price float64, initialStockQty int) (domain.ProductProposal, error) {
	p := domain.ProductProposal{
		ID:              uuid.NewString(),
		SellerSub:       sellerSub,
		CategoryID:      categoryID,
		Name:            name,
		Price:           price,
		InitialStockQty: initialStockQty,
		Status:          domain.StatusPending,
		CreatedAt:       now(),
	}
	_, err := r.db.Exec(`INSERT INTO product_proposals(id, seller_sub, category_id, name, price, initial_stock_qty, status, created_at)
		VALUES(?,?,?,?,?,?,?,?)`,
		p.ID, p.SellerSub, p.CategoryID, p.Name, p.Price, p.InitialStockQty, p.Status, p.CreatedAt)
	return p, err
}

func (r *ProposalRepo) DecideProduct(e sqlx.Ext, id, status, reviewedBy, rejectionReason, createdProductID string) (bool, error) {
	res, err := e.Exec(`UPDATE product_proposals
		SET status = ?, reviewed_at = ?, reviewed_by = ?,
		    rejection_reason = NULLIF(?, ''), created_product_id = NULLIF(?, '')
		WHERE id = ? AND status = ?`,
		status, now(), reviewedBy, rejectionReason, createdProductID, id, domain.StatusPending)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *ProposalRepo) ListPendingProduct() ([]domain.ProductProposal, error) {
	var out []domain.ProductProposal
	err := r.db.Select(&out, `SELECT `+productProposalCols+` FROM product_proposals
		WHERE status = ? ORDER BY created_at`, domain.StatusPending)
	return out, err
}

func (r *ProposalRepo) ListProductBySeller(sellerSub string) ([]domain.ProductProposal, error) {
	var out []domain.ProductProposal
	err := r.db.Select(&out, `SELECT `+productProposalCols+` FROM product_proposals
		WHERE seller_sub = ? ORDER BY created_at DESC`, sellerSub)
	return out, err
}
