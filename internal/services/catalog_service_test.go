package services_test

import (
	"testing"

	"marketd/internal/domain"
	"marketd/internal/repos"
	"marketd/internal/services"
)

func TestVisibility_FollowsApprovalLedger(t *testing.T) {
	db := testDB(t)
	svc := services.NewCatalogService(db, repos.NewProductRepo(db), repos.NewCategoryRepo(db), repos.NewApprovalRepo(db))

	approveSeller(t, db, "seller-ok", "electronics")
	visible := mustProduct(t, db, "seller-ok", "electronics", "Widget", 10, 5)
	hidden := mustProduct(t, db, "seller-rogue", "electronics", "Gadget", 10, 5)

	items, err := svc.ListVisible()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != visible.ID {
		t.Fatalf("want only the approved seller's product, got %+v", items)
	}

	// the buyer detail view keys on the active flag, not the ledger
	if _, err := svc.GetActive(hidden.ID); err != nil {
		t.Fatalf("active product must resolve for buyers: %v", err)
	}
	if _, err := svc.GetActive("no-such-id"); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("want not found for unknown id, got %v", err)
	}
}

func TestVisibility_ApprovalScopedPerCategory(t *testing.T) {
	db := testDB(t)
	svc := services.NewCatalogService(db, repos.NewProductRepo(db), repos.NewCategoryRepo(db), repos.NewApprovalRepo(db))

	approveSeller(t, db, "seller-1", "electronics")
	inScope := mustProduct(t, db, "seller-1", "electronics", "Widget", 10, 5)
	outOfScope := mustProduct(t, db, "seller-1", "books", "Almanac", 10, 5)

	items, err := svc.ListVisible()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != inScope.ID {
		t.Fatalf("approval must not leak across categories, got %+v", items)
	}
	_ = outOfScope
}

func TestBuyerProducts_PagingAndFilter(t *testing.T) {
	db := testDB(t)
	svc := services.NewCatalogService(db, repos.NewProductRepo(db), repos.NewCategoryRepo(db), repos.NewApprovalRepo(db))

	approveSeller(t, db, "seller-1", "electronics")
	approveSeller(t, db, "seller-1", "books")
	for i := 0; i < 3; i++ {
		mustProduct(t, db, "seller-1", "electronics", "Widget", 10, 5)
	}
	mustProduct(t, db, "seller-1", "books", "Almanac", 10, 5)

	page, err := svc.ListActive("", 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 4 || len(page.Items) != 2 || page.Page != 1 || page.PageSize != 2 {
		t.Fatalf("bad first page: %+v", page)
	}

	page, err = svc.ListActive("", 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("bad second page: %+v", page)
	}

	page, err = svc.ListActive("books", 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("category filter broken: %+v", page)
	}
}

func TestBuyerProducts_ClampsPagingInputs(t *testing.T) {
	db := testDB(t)
	svc := services.NewCatalogService(db, repos.NewProductRepo(db), repos.NewCategoryRepo(db), repos.NewApprovalRepo(db))

	page, err := svc.ListActive("", -3, 0)
	if err != nil {
		t.Fatal(err)
	}
	if page.Page != 1 || page.PageSize != 20 {
		t.Fatalf("want defaults 1/20, got %d/%d", page.Page, page.PageSize)
	}

	page, err = svc.ListActive("", 1, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if page.PageSize != 100 {
		t.Fatalf("want size capped at 100, got %d", page.PageSize)
	}
}

func TestCreateProduct_GatedOnApproval(t *testing.T) {
	db := testDB(t)
	svc := services.NewCatalogService(db, repos.NewProductRepo(db), repos.NewCategoryRepo(db), repos.NewApprovalRepo(db))

	_, err := svc.CreateProduct("seller-1", "electronics", "Widget", 10, 5)
	if domain.KindOf(err) != domain.KindForbidden {
		t.Fatalf("want forbidden before approval, got %v", err)
	}

	approveSeller(t, db, "seller-1", "electronics")
	p, err := svc.CreateProduct("seller-1", "electronics", "Widget", 10, 5)
	if err != nil {
		t.Fatal(err)
	}
	if p.SellerSub != "seller-1" || p.StockQty != 5 {
		t.Fatalf("bad product: %+v", p)
	}

	if _, err := svc.CreateProduct("seller-1", "electronics", "", 10, 5); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("want validation for empty name, got %v", err)
	}
	if _, err := svc.CreateProduct("seller-1", "electronics", "Widget", 0, 5); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("want validation for non-positive price, got %v", err)
	}
	if _, err := svc.CreateProduct("seller-1", "electronics", "Widget", 10, -1); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("want validation for negative stock, got %v", err)
	}
}

func TestUpdateProduct_OwnerOnly(t *testing.T) {
	db := testDB(t)
	svc := services.NewCatalogService(db, repos.NewProductRepo(db), repos.NewCategoryRepo(db), repos.NewApprovalRepo(db))
	p := mustProduct(t, db, "seller-1", "electronics", "Widget", 10, 5)

	updated, err := svc.UpdateProduct("seller-1", p.ID, 12.50, 9)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Price != 12.50 || updated.StockQty != 9 {
		t.Fatalf("update not applied: %+v", updated)
	}

	if _, err := svc.UpdateProduct("seller-2", p.ID, 99, 1); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("another seller must see not found, got %v", err)
	}
	if got := stockOf(t, db, p.ID); got != 9 {
		t.Fatalf("foreign update leaked through, stock %d", got)
	}
}

func TestSellerSummary(t *testing.T) {
	db := testDB(t)
	svc := services.NewCatalogService(db, repos.NewProductRepo(db), repos.NewCategoryRepo(db), repos.NewApprovalRepo(db))

	mustProduct(t, db, "seller-1", "electronics", "Widget", 10, 3)
	mustProduct(t, db, "seller-1", "books", "Almanac", 5, 2)
	mustProduct(t, db, "seller-2", "books", "Other", 100, 1)

	sum, err := svc.ListMine("seller-1")
	if err != nil {
		t.Fatal(err)
	}
	if sum.Count != 2 || sum.TotalValue != 40 {
		t.Fatalf("bad rollup: %+v", sum)
	}
}

func TestListCategories_Seeded(t *testing.T) {
	db := testDB(t)
	svc := services.NewCatalogService(db, repos.NewProductRepo(db), repos.NewCategoryRepo(db), repos.NewApprovalRepo(db))

	cats, err := svc.ListCategories()
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 3 {
		t.Fatalf("want the seeded categories, got %+v", cats)
	}
}
