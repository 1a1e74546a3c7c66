package services

import (
	"github.com/jmoiron/sqlx"

	"marketd/internal/domain"
	"marketd/internal/repos"
)

// ApprovalService owns the approval ledger: the authoritative record of
// which sellers may sell in which categories. Entries are permanent once
// decided; there is no revocation.
type ApprovalService struct {
	db         *sqlx.DB
	Approvals  *repos.ApprovalRepo
	Categories *repos.CategoryRepo
}

func NewApprovalService(db *sqlx.DB, approvals *repos.ApprovalRepo, categories *repos.CategoryRepo) *ApprovalService {
	return &ApprovalService{db: db, Approvals: approvals, Categories: categories}
}

// Request creates a pending ledger entry, or returns the existing one for
// this (seller, category) pair. Two concurrent first requests race on the
// unique index; the loser re-reads the winner's row.
func (s *ApprovalService) Request(sellerSub, categoryID string) (domain.ApprovalRequest, error) {
	if sellerSub == "" {
		return domain.ApprovalRequest{}, domain.Unauthenticated("missing subject")
	}
	if categoryID == "" {
		return domain.ApprovalRequest{}, domain.Validation("categoryId is required")
	}
	ok, err := s.Categories.Exists(categoryID)
	if err != nil {
		return domain.ApprovalRequest{}, storeErr(err)
	}
	if !ok {
		return domain.ApprovalRequest{}, domain.ValidationF("unknown category id", map[string]any{"categoryId": categoryID})
	}

	existing, err := s.Approvals.Find(sellerSub, categoryID)
	if err != nil {
		return domain.ApprovalRequest{}, storeErr(err)
	}
	if existing != nil {
		return *existing, nil
	}

	req, err := s.Approvals.Insert(sellerSub, categoryID)
	if err != nil {
		if repos.UniqueViolation(err) {
			if existing, ferr := s.Approvals.Find(sellerSub, categoryID); ferr == nil && existing != nil {
				return *existing, nil
			}
		}
		return domain.ApprovalRequest{}, storeErr(err)
	}
	return req, nil
}

// Decide applies an admin decision. Decisions are terminal: a request
// already decided is returned unchanged, whatever the new decision was.
func (s *ApprovalService) Decide(requestID, decision string) (domain.ApprovalRequest, error) {
	if decision != domain.StatusApproved && decision != domain.StatusRejected {
		return domain.ApprovalRequest{}, domain.Validation("decision must be 'Approved' or 'Rejected'")
	}

	req, err := s.Approvals.Get(requestID)
	if err != nil {
		return domain.ApprovalRequest{}, notFoundOr(err, "approval request not found")
	}
	if req.Status != domain.StatusPending {
		return req, nil
	}

	applied, err := s.Approvals.Decide(requestID, decision)
	if err != nil {
		return domain.ApprovalRequest{}, storeErr(err)
	}
	// applied == false: a concurrent decision won; return the stored result
	_ = applied
	return s.Approvals.Get(requestID)
}

// IsApproved is the gate used by product creation, proposal approval and
// the visibility filter.
func (s *ApprovalService) IsApproved(sellerSub, categoryID string) (bool, error) {
	return s.Approvals.IsApproved(s.db, sellerSub, categoryID)
}

func (s *ApprovalService) ListPending() ([]domain.ApprovalRequest, error) {
	return s.Approvals.ListPending()
}

func (s *ApprovalService) ListBySeller(sellerSub string) ([]domain.ApprovalRequest, error) {
	return s.Approvals.ListBySeller(sellerSub)
}

func (s *ApprovalService) ApprovedCategories(sellerSub string) ([]repos.ApprovedCategory, error) {
	return s.Approvals.ApprovedForSeller(sellerSub)
}
