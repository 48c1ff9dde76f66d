package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"bazaar/internal/apperr"
	"bazaar/internal/docstore"
	"bazaar/internal/domain"
	"bazaar/internal/repos"
	"bazaar/internal/validate"

	"github.com/google/uuid"
)

const maxCommentLen = 500

type ReviewService struct {
	Reviews  *repos.ReviewRepo
	Products *repos.ProductRepo
}

func NewReviewService(r *repos.Repos) *ReviewService {
	return &ReviewService{Reviews: r.Reviews, Products: r.Products}
}

// Summarize averages ratings to one decimal place; an empty set averages to 0.
func Summarize(reviews []domain.Review) domain.ReviewSummary {
	if len(reviews) == 0 {
		return domain.ReviewSummary{}
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := sum / float64(len(reviews))
	return domain.ReviewSummary{TotalReviews: len(reviews), AverageRating: math.Round(avg*10) / 10}
}

type ProductReviews struct {
	Reviews []domain.Review      `json:"reviews"`
	Summary domain.ReviewSummary `json:"summary"`
}

func (s *ReviewService) ByProduct(ctx context.Context, productID string) (ProductReviews, error) {
	list, err := s.Reviews.ByProduct(ctx, productID)
	if err != nil {
		return ProductReviews{}, fmt.Errorf("list reviews: %w", err)
	}
	return ProductReviews{Reviews: list, Summary: Summarize(list)}, nil
}

type ReviewInput struct {
	ProductID string  `json:"productId"`
	Rating    float64 `json:"rating"`
	Comment   string  `json:"comment"`
}

type ReviewResult struct {
	Review  *domain.Review       `json:"review"`
	Summary domain.ReviewSummary `json:"summary"`
	Created bool                 `json:"-"`
}

// Submit creates the caller's review of a product or updates the one they already wrote.
func (s *ReviewService) Submit(ctx context.Context, userID, userName string, in ReviewInput) (*ReviewResult, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, apperr.ValidationFields("productId is required", map[string]string{"productId": "productId is required"})
	}
	if !validate.Rating(in.Rating) {
		msg := "rating must be between 1 and 5 in 0.5 increments"
		return nil, apperr.ValidationFields(msg, map[string]string{"rating": msg})
	}
	if _, err := s.Products.Get(ctx, productID); err != nil {
		return nil, notFound(err, "Product not found")
	}
	userName = strings.TrimSpace(userName)
	if userName == "" {
		userName = "User"
	}
	comment := validate.Truncate(strings.TrimSpace(in.Comment), maxCommentLen)

	t := now()
	rv, err := s.Reviews.ByUserAndProduct(ctx, userID, productID)
	created := errors.Is(err, docstore.ErrNotFound)
	switch {
	case created:
		rv = &domain.Review{
			ID:        uuid.NewString(),
			ProductID: productID,
			UserID:    userID,
			CreatedAt: t,
		}
	case err != nil:
		return nil, fmt.Errorf("load review: %w", err)
	}
	rv.UserName = userName
	rv.Rating = in.Rating
	rv.Comment = comment
	rv.UpdatedAt = t
	if created {
		err = s.Reviews.Create(ctx, rv)
	} else {
		err = s.Reviews.Save(ctx, rv)
	}
	if err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}

	list, err := s.Reviews.ByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return &ReviewResult{Review: rv, Summary: Summarize(list), Created: created}, nil
}
