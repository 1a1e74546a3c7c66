package repos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"marketd/internal/domain"
)

// ApprovalRepo persists the approval ledger: per-(seller, category)
// decisions gating product creation and catalog visibility.
type ApprovalRepo struct{ db *sqlx.DB }

func NewApprovalRepo(db *sqlx.DB) *ApprovalRepo { return &ApprovalRepo{db: db} }

const approvalCols = `id, seller_sub, category_id, status, created_at, decided_at`

func (r *ApprovalRepo) Get(id string) (domain.ApprovalRequest, error) {
	var req domain.ApprovalRequest
	err := r.db.Get(&req, `SELECT `+approvalCols+` FROM approval_requests WHERE id = ?`, id)
	return req, err
}

// Find returns the ledger row for (sellerSub, categoryID), or nil.
func (r *ApprovalRepo) Find(sellerSub, categoryID string) (*domain.ApprovalRequest, error) {
	var req domain.ApprovalRequest
	err := r.db.Get(&req, `SELECT `+approvalCols+` FROM approval_requests
		WHERE seller_sub = ? AND category_id = ?`, sellerSub, categoryID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *ApprovalRepo) Insert(sellerSub, categoryID string) (domain.ApprovalRequest, error) {
	req := domain.ApprovalRequest{
		ID:         uuid.NewString(),
		SellerSub:  sellerSub,
		CategoryID: categoryID,
		Status:     domain.StatusPending,
		CreatedAt:  now(),
	}
	_, err := r.db.Exec(`INSERT INTO approval_requests(id, seller_sub, category_id, status, created_at)
		VALUES(?,?,?,?,?)`, req.ID, req.SellerSub, req.CategoryID, req.Status, req.CreatedAt)
	return req, err
}

// Decide marks a pending request. Returns false when the row was already
// decided (or missing), so callers can re-read and hand back the stored result.
func (r *ApprovalRepo) Decide(id, status string) (bool, error) {
	res, err := r.db.Exec(`UPDATE approval_requests SET status = ?, decided_at = ?
		WHERE id = ? AND status = ?`, status, now(), id, domain.StatusPending)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// IsApproved runs on a DB or Tx so the proposal workflow can re-check the
// gate inside its own transaction.
func (r *ApprovalRepo) IsApproved(e sqlx.Ext, sellerSub, categoryID string) (bool, error) {
	var n int
	err := sqlx.Get(e, &n, `SELECT COUNT(*) FROM approval_requests
		WHERE seller_sub = ? AND category_id = ? AND status = ?`,
		sellerSub, categoryID, domain.StatusApproved)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ApprovalRepo) ListPending() ([]domain.ApprovalRequest, error) {
	var out []domain.ApprovalRequest
	err := r.db.Select(&out, `SELECT `+approvalCols+` FROM approval_requests
		WHERE status = ? ORDER BY created_at`, domain.StatusPending)
	return out, err
}

func (r *ApprovalRepo) ListBySeller(sellerSub string) ([]domain.ApprovalRequest, error) {
	var out []domain.ApprovalRequest
	err := r.db.Select(&out, `SELECT `+approvalCols+` FROM approval_requests
		WHERE seller_sub = ? ORDER BY created_at DESC`, sellerSub)
	return out, err
}

// ApprovedCategory is the seller dashboard row: which categories the
// seller may list in, with the category name joined on.
type ApprovedCategory struct {
	RequestID    string  `db:"request_id" json:"requestId"`
	CategoryID   string  `db:"category_id" json:"categoryId"`
	CategoryName string  `db:"category_name" json:"categoryName"`
	DecidedAt    *string `db:"decided_at" json:"approvedAt,omitempty"`
}

func (r *ApprovalRepo) ApprovedForSeller(sellerSub string) ([]ApprovedCategory, error) {
	var out []ApprovedCategory
	err := r.db.Select(&out, `
		SELECT r.id AS request_id, r.category_id, c.name AS category_name, r.decided_at
		FROM approval_requests r
		JOIN categories c ON c.id = r.category_id
		WHERE r.seller_sub = ? AND r.status = ?
		ORDER BY r.category_id`, sellerSub, domain.StatusApproved)
	return out, err
}
