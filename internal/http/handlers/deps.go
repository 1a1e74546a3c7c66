package handlers

import (
	"github.com/jmoiron/sqlx"

	"marketd/internal/repos"
	"marketd/internal/services"
)

type Deps struct {
	SellerHandler   *SellerHandler
	AdminHandler    *AdminHandler
	OrderHandler    *OrderHandler
	CatalogHandler  *CatalogHandler
	FeedbackHandler *FeedbackHandler
}

func NewDeps(db *sqlx.DB) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	approvalRepo := repos.NewApprovalRepo(db)
	proposalRepo := repos.NewProposalRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	fbRepo := repos.NewFeedbackRepo(db)

	approvalSvc := services.NewApprovalService(db, approvalRepo, catRepo)
	proposalSvc := services.NewProposalService(db, proposalRepo, approvalRepo, catRepo, prodRepo)
	catalogSvc := services.NewCatalogService(db, prodRepo, catRepo, approvalRepo)
	orderSvc := services.NewOrderService(db, prodRepo, orderRepo)
	fbSvc := services.NewFeedbackService(prodRepo, fbRepo)

	return &Deps{
		SellerHandler:   &SellerHandler{Approvals: approvalSvc, Proposals: proposalSvc, Catalog: catalogSvc, Feedback: fbSvc},
		AdminHandler:    &AdminHandler{Approvals: approvalSvc, Proposals: proposalSvc},
		OrderHandler:    &OrderHandler{Orders: orderSvc},
		CatalogHandler:  &CatalogHandler{Catalog: catalogSvc},
		FeedbackHandler: &FeedbackHandler{Feedback: fbSvc},
	}
}
