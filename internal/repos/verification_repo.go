package repos

import (
	"context"
	"slices"

	"bazaar/internal/docstore"
	"bazaar/internal/domain"
)

type VerificationRepo struct {
	c *docstore.Collection[domain.Verification]
}

func NewVerificationRepo(s docstore.Store) *VerificationRepo {
	return &VerificationRepo{c: docstore.NewCollection[domain.Verification](s, CollVerifications)}
}

func (r *VerificationRepo) ByUserID(ctx context.Context, userID string) (*domain.Verification, error) {
	return r.c.Get(ctx, userID)
}

// Save writes the record under its user id, replacing any previous submission.
func (r *VerificationRepo) Save(ctx context.Context, v *domain.Verification) error {
	v.ID = v.UserID
	return r.c.Put(ctx, v.UserID, v)
}

// List returns records with the given status (all when empty), most recently updated first.
func (r *VerificationRepo) List(ctx context.Context, status string) ([]domain.Verification, error) {
	var conds []docstore.Cond
	if status != "" {
		conds = append(conds, docstore.Eq("status", status))
	}
	out, err := r.c.Find(ctx, conds...)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(out, func(a, b domain.Verification) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	return out, nil
}

func (r *VerificationRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	return r.c.Count(ctx, docstore.Eq("status", status))
}
