package repos

import (
	"context"
	"slices"

	"bazaar/internal/docstore"
	"bazaar/internal/domain"
)

type ReviewRepo struct{ c *docstore.Collection[domain.Review] }

func NewReviewRepo(s docstore.Store) *ReviewRepo {
	return &ReviewRepo{c: docstore.NewCollection[domain.Review](s, CollReviews)}
}

// ByProduct returns the product's reviews newest first.
func (r *ReviewRepo) ByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	out, err := r.c.Find(ctx, docstore.Eq("productId", productID))
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(out, func(a, b domain.Review) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (r *ReviewRepo) ByUserAndProduct(ctx context.Context, userID, productID string) (*domain.Review, error) {
	return r.c.FindOne(ctx, docstore.Eq("userId", userID), docstore.Eq("productId", productID))
}

func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	return r.c.Create(ctx, rv.ID, rv)
}

func (r *ReviewRepo) Save(ctx context.Context, rv *domain.Review) error {
	return r.c.Put(ctx, rv.ID, rv)
}

func (r *ReviewRepo) Count(ctx context.Context) (int, error) { return r.c.Count(ctx) }
