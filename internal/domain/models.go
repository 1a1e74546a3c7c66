package domain

// Proposal and approval-request lifecycle. Pending is the only state a
// decision can be applied to; Approved and Rejected are terminal.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

type Product struct {
	ID         string  `db:"id" json:"id"`
	SellerSub  string  `db:"seller_sub" json:"sellerSub"`
	CategoryID string  `db:"category_id" json:"categoryId"`
	Name       string  `db:"name" json:"name"`
	Price      float64 `db:"price" json:"price"`
	StockQty   int     `db:"stock_qty" json:"stockQty"`
	Active     bool    `db:"active" json:"isActive"`
	CreatedAt  string  `db:"created_at" json:"createdAt"`
}

// ApprovalRequest is one ledger entry: may seller_sub sell in category_id.
// At most one row exists per (seller_sub, category_id).
type ApprovalRequest struct {
	ID         string  `db:"id" json:"id"`
	SellerSub  string  `db:"seller_sub" json:"sellerSub"`
	CategoryID string  `db:"category_id" json:"categoryId"`
	Status     string  `db:"status" json:"status"`
	CreatedAt  string  `db:"created_at" json:"createdAt"`
	DecidedAt  *string `db:"decided_at" json:"decidedAt,omitempty"`
}

type CategoryProposal struct {
	ID                string  `db:"id" json:"id"`
	SellerSub         string  `db:"seller_sub" json:"sellerSub"`
	Name              string  `db:"name" json:"name"`
	Status            string  `db:"status" json:"status"`
	CreatedAt         string  `db:"created_at" json:"createdAt"`
	ReviewedAt        *string `db:"reviewed_at" json:"reviewedAt,omitempty"`
	ReviewedBy        *string `db:"reviewed_by" json:"reviewedBy,omitempty"`
	RejectionReason   *string `db:"rejection_reason" json:"rejectionReason,omitempty"`
	CreatedCategoryID *string `db:"created_category_id" json:"createdCategoryId,omitempty"`
}

type ProductProposal struct {
	ID               string  `db:"id" json:"id"`
	SellerSub        string  `db:"seller_sub" json:"sellerSub"`
	CategoryID       string  `db:"category_id" json:"categoryId"`
	Name             string  `db:"name" json:"name"`
	Price            float64 `db:"price" json:"price"`
	InitialStockQty  int     `db:"initial_stock_qty" json:"initialStockQty"`
	Status           string  `db:"status" json:"status"`
	CreatedAt        string  `db:"created_at" json:"createdAt"`
	ReviewedAt       *string `db:"reviewed_at" json:"reviewedAt,omitempty"`
	ReviewedBy       *string `db:"reviewed_by" json:"reviewedBy,omitempty"`
	RejectionReason  *string `db:"rejection_reason" json:"rejectionReason,omitempty"`
	CreatedProductID *string `db:"created_product_id" json:"createdProductId,omitempty"`
}

type Order struct {
	ID        string      `db:"id" json:"orderId"`
	BuyerSub  string      `db:"buyer_sub" json:"-"`
	CreatedAt string      `db:"created_at" json:"createdAt"`
	Items     []OrderItem `db:"-" json:"items"`
}

type OrderItem struct {
	ProductID string `db:"product_id" json:"productId"`
	Qty       int    `db:"qty" json:"qty"`
}

type Feedback struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"productId"`
	BuyerSub  string `db:"buyer_sub" json:"-"`
	Rating    int    `db:"rating" json:"rating"`
	Comment   string `db:"comment" json:"comment"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}
