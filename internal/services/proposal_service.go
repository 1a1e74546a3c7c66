package services

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"marketd/internal/domain"
	"marketd/internal/repos"
	"marketd/internal/validate"
)

// ProposalService runs the pending/approved/rejected workflow for both
// proposal kinds. The shared transition rules live in decide(); what
// differs per kind is the materializer run on approval (create-or-reuse
// a category vs. create a product behind the ledger gate). Review and
// materialization always commit in one transaction so a retried review
// can never create a second category or product.
type ProposalService struct {
	db         *sqlx.DB
	Proposals  *repos.ProposalRepo
	Approvals  *repos.ApprovalRepo
	Categories *repos.CategoryRepo
	Products   *repos.ProductRepo
}

func NewProposalService(db *sqlx.DB, proposals *repos.ProposalRepo, approvals *repos.ApprovalRepo,
	categories *repos.CategoryRepo, products *repos.ProductRepo) *ProposalService {
	return &ProposalService{db: db, Proposals: proposals, Approvals: approvals,
		Categories: categories, Products: products}
}

// Review carries an admin decision on one proposal.
type Review struct {
	ProposalID      string
	AdminSub        string
	Decision        string // Approved | Rejected
	RejectionReason string
}

// ---------- submission ----------

func (s *ProposalService) SubmitCategory(sellerSub, name string) (domain.CategoryProposal, error) {
	if sellerSub == "" {
		return domain.CategoryProposal{}, domain.Unauthenticated("missing subject")
	}
	name, ok := validate.Name(name)
	if !ok {
		return domain.CategoryProposal{}, domain.Validation("name is required")
	}

	// same seller + same name still pending: hand back the existing draft
	existing, err := s.Proposals.FindPendingCategory(sellerSub, name)
	if err != nil {
		return domain.CategoryProposal{}, storeErr(err)
	}
	if existing != nil {
		return *existing, nil
	}

	p, err := s.Proposals.InsertCategory(sellerSub, name)
	return p, storeErr(err)
}

func (s *ProposalService) SubmitProduct(sellerSub, categoryID, name string, price float64, initialStockQty int) (domain.ProductProposal, error) {
	if sellerSub == "" {
		return domain.ProductProposal{}, domain.Unauthenticated("missing subject")
	}
	if categoryID == "" {
		return domain.ProductProposal{}, domain.Validation("categoryId is required")
	}
	name, ok := validate.Name(name)
	if !ok {
		return domain.ProductProposal{}, domain.Validation("name is required")
	}
	if price <= 0 {
		return domain.ProductProposal{}, domain.Validation("price must be > 0")
	}
	if initialStockQty < 0 {
		return domain.ProductProposal{}, domain.Validation("initialStockQty must be >= 0")
	}
	exists, err := s.Categories.Exists(categoryID)
	if err != nil {
		return domain.ProductProposal{}, storeErr(err)
	}
	if !exists {
		return domain.ProductProposal{}, domain.ValidationF("unknown category id", map[string]any{"categoryId": categoryID})
	}

	existing, err := s.Proposals.FindPendingProduct(sellerSub, categoryID, name)
	if err != nil {
		return domain.ProductProposal{}, storeErr(err)
	}
	if existing != nil {
		return *existing, nil
	}

	p, err := s.Proposals.InsertProduct(sellerSub, categoryID, name, price, initialStockQty)
	return p, storeErr(err)
}

// ---------- review ----------

// decision is the kind-agnostic part of a review: load the proposal's
// status, short-circuit decided ones, and otherwise apply the transition
// with the kind's materializer.
type decision struct {
	// status of the stored proposal before the transition
	status string
	// materialize runs only for approvals of still-pending proposals and
	// returns the created entity id. Returning a domain error aborts the
	// transaction and leaves the proposal Pending.
	materialize func(tx *sqlx.Tx) (string, error)
	// apply writes the terminal state (guarded on Pending) inside tx.
	apply func(tx *sqlx.Tx, createdID string) (bool, error)
}

// runDecision executes the shared transition inside one transaction.
// Returns false when the proposal turned out to be already decided.
func (s *ProposalService) runDecision(rev Review, d decision) (bool, error) {
	if d.status != domain.StatusPending {
		return false, nil // terminal: no-op, caller returns the stored row
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return false, storeErr(err)
	}
	defer func() { _ = tx.Rollback() }()

	createdID := ""
	if rev.Decision == domain.StatusApproved {
		createdID, err = d.materialize(tx)
		if err != nil {
			return false, err
		}
	}

	applied, err := d.apply(tx, createdID)
	if err != nil {
		return false, storeErr(err)
	}
	if !applied {
		// lost a race against a concurrent review; treat as already decided
		return false, nil
	}
	if err := tx.Commit(); err != nil {
		return false, storeErr(err)
	}
	return true, nil
}

func normalizeReview(rev *Review) error {
	d, ok := validate.Decision(rev.Decision)
	if !ok {
		return domain.Validation("decision must be 'Approved' or 'Rejected'")
	}
	rev.Decision = d
	rev.RejectionReason = strings.TrimSpace(rev.RejectionReason)
	if rev.AdminSub == "" {
		return domain.Unauthenticated("missing subject")
	}
	return nil
}

// ReviewCategory decides a category proposal. Approval reuses an existing
// category when an equivalent name (case-insensitive) already exists.
func (s *ProposalService) ReviewCategory(rev Review) (domain.CategoryProposal, error) {
	if err := normalizeReview(&rev); err != nil {
		return domain.CategoryProposal{}, err
	}

	var out domain.CategoryProposal
	err := withRetry(func() error {
		p, err := s.Proposals.GetCategory(s.db, rev.ProposalID)
		if err != nil {
			return notFoundOr(err, "category proposal not found")
		}

		_, err = s.runDecision(rev, decision{
			status: p.Status,
			materialize: func(tx *sqlx.Tx) (string, error) {
				existing, err := s.Categories.FindByNameFold(tx, p.Name)
				if err != nil {
					return "", storeErr(err)
				}
				if existing != nil {
					return existing.ID, nil
				}
				c, err := s.Categories.Insert(tx, p.Name)
				if err != nil {
					return "", storeErr(err)
				}
				return c.ID, nil
			},
			apply: func(tx *sqlx.Tx, createdID string) (bool, error) {
				return s.Proposals.DecideCategory(tx, p.ID, rev.Decision, rev.AdminSub, rev.RejectionReason, createdID)
			},
		})
		if err != nil {
			return err
		}

		out, err = s.Proposals.GetCategory(s.db, rev.ProposalID)
		return storeErr(err)
	})
	return out, err
}

// ReviewProduct decides a product proposal. Approval requires an Approved
// ledger entry for the proposal's (seller, category); when the gate fails
// the proposal stays Pending so the admin can approve the category and
// retry.
func (s *ProposalService) ReviewProduct(rev Review) (domain.ProductProposal, error) {
	if err := normalizeReview(&rev); err != nil {
		return domain.ProductProposal{}, err
	}

	var out domain.ProductProposal
	err := withRetry(func() error {
		p, err := s.Proposals.GetProduct(s.db, rev.ProposalID)
		if err != nil {
			return notFoundOr(err, "product proposal not found")
		}

		_, err = s.runDecision(rev, decision{
			status: p.Status,
			materialize: func(tx *sqlx.Tx) (string, error) {
				approved, err := s.Approvals.IsApproved(tx, p.SellerSub, p.CategoryID)
				if err != nil {
					return "", storeErr(err)
				}
				if !approved {
					return "", domain.RuleViolation(
						"seller is not approved for this category; approve the category first, then retry",
						map[string]any{"sellerSub": p.SellerSub, "categoryId": p.CategoryID})
				}
				prod, err := s.Products.Insert(tx, p.SellerSub, p.CategoryID, p.Name, p.Price, p.InitialStockQty)
				if err != nil {
					return "", storeErr(err)
				}
				return prod.ID, nil
			},
			apply: func(tx *sqlx.Tx, createdID string) (bool, error) {
				return s.Proposals.DecideProduct(tx, p.ID, rev.Decision, rev.AdminSub, rev.RejectionReason, createdID)
			},
		})
		if err != nil {
			return err
		}

		out, err = s.Proposals.GetProduct(s.db, rev.ProposalID)
		return storeErr(err)
	})
	return out, err
}

// ---------- seller/admin views ----------

func (s *ProposalService) PendingCategoryProposals() ([]domain.CategoryProposal, error) {
	return s.Proposals.ListPendingCategory()
}

func (s *ProposalService) PendingProductProposals() ([]domain.ProductProposal, error) {
	return s.Proposals.ListPendingProduct()
}

func (s *ProposalService) CategoryProposalsBySeller(sellerSub string) ([]domain.CategoryProposal, error) {
	return s.Proposals.ListCategoryBySeller(sellerSub)
}

func (s *ProposalService) ProductProposalsBySeller(sellerSub string) ([]domain.ProductProposal, error) {
	return s.Proposals.ListProductBySeller(sellerSub)
}
