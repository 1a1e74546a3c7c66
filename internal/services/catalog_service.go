package services

import (
	"github.com/jmoiron/sqlx"

	"marketd/internal/domain"
	"marketd/internal/repos"
	"marketd/internal/validate"
)

// CatalogService covers product listing and the seller's direct product
// slice. Public visibility follows the approval ledger: a product shows
// only while its (seller, category) pair holds an Approved entry.
type CatalogService struct {
	db         *sqlx.DB
	Products   *repos.ProductRepo
	Categories *repos.CategoryRepo
	Approvals  *repos.ApprovalRepo
}

func NewCatalogService(db *sqlx.DB, products *repos.ProductRepo, categories *repos.CategoryRepo, approvals *repos.ApprovalRepo) *CatalogService {
	return &CatalogService{db: db, Products: products, Categories: categories, Approvals: approvals}
}

// ListVisible is the public catalog: approved seller/category combos only.
func (s *CatalogService) ListVisible() ([]domain.Product, error) {
	out, err := s.Products.ListVisible()
	return out, storeErr(err)
}

// BuyerPage is the paged envelope for the buyer catalog.
type BuyerPage struct {
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	Total    int              `json:"total"`
	Items    []domain.Product `json:"items"`
}

func (s *CatalogService) ListActive(categoryID string, page, pageSize int) (BuyerPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	total, err := s.Products.CountActive(categoryID)
	if err != nil {
		return BuyerPage{}, storeErr(err)
	}
	items, err := s.Products.ListActive(categoryID, (page-1)*pageSize, pageSize)
	if err != nil {
		return BuyerPage{}, storeErr(err)
	}
	return BuyerPage{Page: page, PageSize: pageSize, Total: total, Items: items}, nil
}

func (s *CatalogService) GetActive(id string) (domain.Product, error) {
	p, err := s.Products.GetActive(id)
	if err != nil {
		return domain.Product{}, storeErr(err)
	}
	if p == nil {
		return domain.Product{}, domain.NotFound("product not found (or not available)")
	}
	return *p, nil
}

// CreateProduct is the seller's direct create, gated on the ledger.
func (s *CatalogService) CreateProduct(sellerSub, categoryID, name string, price float64, stockQty int) (domain.Product, error) {
	if sellerSub == "" {
		return domain.Product{}, domain.Unauthenticated("missing subject")
	}
	if categoryID == "" {
		return domain.Product{}, domain.Validation("categoryId is required")
	}
	name, ok := validate.Name(name)
	if !ok {
		return domain.Product{}, domain.Validation("name is required")
	}
	if price <= 0 {
		return domain.Product{}, domain.Validation("price must be > 0")
	}
	if stockQty < 0 {
		return domain.Product{}, domain.Validation("stockQty must be >= 0")
	}

	approved, err := s.Approvals.IsApproved(s.db, sellerSub, categoryID)
	if err != nil {
		return domain.Product{}, storeErr(err)
	}
	if !approved {
		return domain.Product{}, domain.Forbidden("seller is not approved for this category")
	}

	p, err := s.Products.Insert(s.db, sellerSub, categoryID, name, price, stockQty)
	return p, storeErr(err)
}

// UpdateProduct is the owning seller's absolute price/stock set.
func (s *CatalogService) UpdateProduct(sellerSub, productID string, price float64, stockQty int) (domain.Product, error) {
	if sellerSub == "" {
		return domain.Product{}, domain.Unauthenticated("missing subject")
	}
	if price <= 0 {
		return domain.Product{}, domain.Validation("price must be > 0")
	}
	if stockQty < 0 {
		return domain.Product{}, domain.Validation("stockQty must be >= 0")
	}

	updated, err := s.Products.UpdatePriceStock(sellerSub, productID, price, stockQty)
	if err != nil {
		return domain.Product{}, storeErr(err)
	}
	if !updated {
		return domain.Product{}, domain.NotFound("product not found for this seller")
	}
	return s.Products.Get(productID)
}

// SellerSummary is the seller dashboard: own products plus a small rollup.
type SellerSummary struct {
	Count      int              `json:"count"`
	TotalValue float64          `json:"totalValue"`
	Items      []domain.Product `json:"items"`
}

func (s *CatalogService) ListMine(sellerSub string) (SellerSummary, error) {
	items, err := s.Products.ListBySeller(sellerSub)
	if err != nil {
		return SellerSummary{}, storeErr(err)
	}
	sum := SellerSummary{Count: len(items), Items: items}
	for _, p := range items {
		sum.TotalValue += p.Price * float64(p.StockQty)
	}
	return sum, nil
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Categories.All()
}
