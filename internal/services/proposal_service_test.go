package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"marketd/internal/domain"
	"marketd/internal/repos"
	"marketd/internal/services"
)

func newProposalService(db *sqlx.DB) *services.ProposalService {
	return services.NewProposalService(db,
		repos.NewProposalRepo(db),
		repos.NewApprovalRepo(db),
		repos.NewCategoryRepo(db),
		repos.NewProductRepo(db))
}

// Flow: a product proposal cannot be approved until the seller holds a
// category approval; the failed attempt leaves the proposal Pending and
// creates nothing, and the retry after the ledger entry succeeds.
func TestProductProposal_ApprovalGatedOnLedger(t *testing.T) {
	db := testDB(t)
	svc := newProposalService(db)
	products := repos.NewProductRepo(db)

	proposal, err := svc.SubmitProduct("seller-1", "electronics", "Widget", 10, 5)
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.ReviewProduct(services.Review{
		ProposalID: proposal.ID, AdminSub: "admin-1", Decision: domain.StatusApproved,
	})
	if domain.KindOf(err) != domain.KindRuleViolation {
		t.Fatalf("want rule violation, got %v", err)
	}

	stored, err := repos.NewProposalRepo(db).GetProduct(db, proposal.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != domain.StatusPending {
		t.Fatalf("proposal must stay Pending after a gated approval, got %s", stored.Status)
	}
	if n, _ := products.ListBySeller("seller-1"); len(n) != 0 {
		t.Fatal("no product may exist after a failed approval")
	}

	// admin approves the seller for the category, then retries
	approveSeller(t, db, "seller-1", "electronics")

	reviewed, err := svc.ReviewProduct(services.Review{
		ProposalID: proposal.ID, AdminSub: "admin-1", Decision: domain.StatusApproved,
	})
	if err != nil {
		t.Fatal(err)
	}
	if reviewed.Status != domain.StatusApproved || reviewed.CreatedProductID == nil {
		t.Fatalf("bad reviewed proposal: %+v", reviewed)
	}

	created, err := products.Get(*reviewed.CreatedProductID)
	if err != nil {
		t.Fatal(err)
	}
	if created.StockQty != 5 || created.Price != 10 || created.SellerSub != "seller-1" {
		t.Fatalf("bad created product: %+v", created)
	}
}

func TestProductProposal_ReReviewIsNoOp(t *testing.T) {
	db := testDB(t)
	svc := newProposalService(db)
	approveSeller(t, db, "seller-1", "books")

	proposal, err := svc.SubmitProduct("seller-1", "books", "Almanac", 25, 3)
	if err != nil {
		t.Fatal(err)
	}
	first, err := svc.ReviewProduct(services.Review{
		ProposalID: proposal.ID, AdminSub: "admin-1", Decision: domain.StatusApproved,
	})
	if err != nil {
		t.Fatal(err)
	}

	// second review, even flipping the decision, returns the stored record
	second, err := svc.ReviewProduct(services.Review{
		ProposalID: proposal.ID, AdminSub: "admin-2", Decision: domain.StatusRejected,
	})
	if err != nil {
		t.Fatal(err)
	}
	if second.Status != domain.StatusApproved || *second.CreatedProductID != *first.CreatedProductID {
		t.Fatalf("re-review must be a no-op: %+v", second)
	}

	// and no second product appeared
	items, err := repos.NewProductRepo(db).ListBySeller("seller-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("want exactly one product, got %d", len(items))
	}
}

func TestCategoryProposal_ApprovalReusesExistingName(t *testing.T) {
	db := testDB(t)
	svc := newProposalService(db)

	proposal, err := svc.SubmitCategory("seller-1", "  ELECTRONICS ")
	if err != nil {
		t.Fatal(err)
	}

	reviewed, err := svc.ReviewCategory(services.Review{
		ProposalID: proposal.ID, AdminSub: "admin-1", Decision: domain.StatusApproved,
	})
	if err != nil {
		t.Fatal(err)
	}
	if reviewed.CreatedCategoryID == nil || *reviewed.CreatedCategoryID != "electronics" {
		t.Fatalf("want the seeded category reused, got %+v", reviewed.CreatedCategoryID)
	}

	cats, err := repos.NewCategoryRepo(db).All()
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 3 {
		t.Fatalf("no duplicate category may be created, got %d", len(cats))
	}
}

func TestCategoryProposal_ApprovalCreatesNewCategory(t *testing.T) {
	db := testDB(t)
	svc := newProposalService(db)

	proposal, err := svc.SubmitCategory("seller-1", "Garden Tools")
	if err != nil {
		t.Fatal(err)
	}
	reviewed, err := svc.ReviewCategory(services.Review{
		ProposalID: proposal.ID, AdminSub: "admin-1", Decision: domain.StatusApproved,
	})
	if err != nil {
		t.Fatal(err)
	}
	if reviewed.CreatedCategoryID == nil {
		t.Fatal("approval must record the created category id")
	}

	c, err := repos.NewCategoryRepo(db).Get(*reviewed.CreatedCategoryID)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "Garden Tools" {
		t.Fatalf("bad category: %+v", c)
	}
}

func TestCategoryProposal_RejectionRecordsReason(t *testing.T) {
	db := testDB(t)
	svc := newProposalService(db)

	proposal, err := svc.SubmitCategory("seller-1", "Weapons")
	if err != nil {
		t.Fatal(err)
	}
	reviewed, err := svc.ReviewCategory(services.Review{
		ProposalID: proposal.ID, AdminSub: "admin-1",
		Decision: domain.StatusRejected, RejectionReason: "  not permitted ",
	})
	if err != nil {
		t.Fatal(err)
	}
	if reviewed.Status != domain.StatusRejected {
		t.Fatalf("want Rejected, got %s", reviewed.Status)
	}
	// reason is stored trimmed
	if reviewed.RejectionReason == nil || *reviewed.RejectionReason != "not permitted" {
		t.Fatalf("rejection reason not recorded: %+v", reviewed)
	}
	if reviewed.ReviewedBy == nil || *reviewed.ReviewedBy != "admin-1" {
		t.Fatalf("reviewer not recorded: %+v", reviewed)
	}
	if reviewed.CreatedCategoryID != nil {
		t.Fatal("rejection must not materialize a category")
	}

	// an all-whitespace reason is stored as no reason at all
	blank, err := svc.SubmitCategory("seller-1", "Fireworks")
	if err != nil {
		t.Fatal(err)
	}
	noReason, err := svc.ReviewCategory(services.Review{
		ProposalID: blank.ID, AdminSub: "admin-1",
		Decision: domain.StatusRejected, RejectionReason: "   ",
	})
	if err != nil {
		t.Fatal(err)
	}
	if noReason.RejectionReason != nil {
		t.Fatalf("blank reason must not be stored: %+v", noReason)
	}
}

func TestPendingDuplicateSubmissionsReturnExisting(t *testing.T) {
	db := testDB(t)
	svc := newProposalService(db)

	cp1, err := svc.SubmitCategory("seller-1", "Garden Tools")
	if err != nil {
		t.Fatal(err)
	}
	cp2, err := svc.SubmitCategory("seller-1", "Garden Tools")
	if err != nil {
		t.Fatal(err)
	}
	if cp1.ID != cp2.ID {
		t.Fatal("pending duplicate category proposal must be returned, not recreated")
	}

	pp1, err := svc.SubmitProduct("seller-1", "books", "Almanac", 25, 3)
	if err != nil {
		t.Fatal(err)
	}
	pp2, err := svc.SubmitProduct("seller-1", "books", "Almanac", 30, 9)
	if err != nil {
		t.Fatal(err)
	}
	if pp1.ID != pp2.ID {
		t.Fatal("pending duplicate product proposal must be returned, not recreated")
	}

	// a different seller is free to propose the same name
	other, err := svc.SubmitCategory("seller-2", "Garden Tools")
	if err != nil {
		t.Fatal(err)
	}
	if other.ID == cp1.ID {
		t.Fatal("the duplicate guard is per seller")
	}
}

func TestReviewValidation(t *testing.T) {
	db := testDB(t)
	svc := newProposalService(db)

	_, err := svc.ReviewProduct(services.Review{ProposalID: "missing", AdminSub: "admin-1", Decision: "Maybe"})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("want validation error, got %v", err)
	}

	_, err = svc.ReviewProduct(services.Review{ProposalID: "missing", AdminSub: "admin-1", Decision: domain.StatusApproved})
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("want not found, got %v", err)
	}

	_, err = svc.SubmitProduct("seller-1", "no-such-category", "Widget", 10, 5)
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("want validation error for unknown category, got %v", err)
	}
}
