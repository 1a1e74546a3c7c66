package services

import (
	"marketd/internal/domain"
	"marketd/internal/repos"
	"marketd/internal/validate"
)

type FeedbackService struct {
	Products *repos.ProductRepo
	Feedback *repos.FeedbackRepo
}

func NewFeedbackService(products *repos.ProductRepo, feedback *repos.FeedbackRepo) *FeedbackService {
	return &FeedbackService{Products: products, Feedback: feedback}
}

// Submit records one buyer's feedback on one product. The store enforces
// one row per (product, buyer); a second submission is a Conflict.
func (s *FeedbackService) Submit(buyerSub, productID string, rating int, comment string) (domain.Feedback, error) {
	if buyerSub == "" {
		return domain.Feedback{}, domain.Unauthenticated("missing subject")
	}
	exists, err := s.Products.Exists(productID)
	if err != nil {
		return domain.Feedback{}, storeErr(err)
	}
	if !exists {
		return domain.Feedback{}, domain.ValidationF("unknown product id", map[string]any{"productId": productID})
	}
	if !validate.Rating(rating) {
		return domain.Feedback{}, domain.Validation("rating must be between 1 and 5")
	}
	comment, ok := validate.Comment(comment)
	if !ok {
		return domain.Feedback{}, domain.Validation("comment is required")
	}

	f, err := s.Feedback.Insert(productID, buyerSub, rating, comment)
	if err != nil {
		if repos.UniqueViolation(err) {
			return domain.Feedback{}, domain.Conflict("feedback already submitted for this product")
		}
		return domain.Feedback{}, storeErr(err)
	}
	return f, nil
}

func (s *FeedbackService) ListForProduct(productID string) ([]domain.Feedback, error) {
	out, err := s.Feedback.ListByProduct(productID)
	return out, storeErr(err)
}

func (s *FeedbackService) ListForSeller(sellerSub string) ([]domain.Feedback, error) {
	out, err := s.Feedback.ListForSeller(sellerSub)
	return out, storeErr(err)
}
