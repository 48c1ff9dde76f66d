package repos

import (
	"context"

	"bazaar/internal/docstore"
	"bazaar/internal/domain"
)

type ProductRepo struct{ c *docstore.Collection[domain.Product] }

func NewProductRepo(s docstore.Store) *ProductRepo {
	return &ProductRepo{c: docstore.NewCollection[domain.Product](s, CollProducts)}
}

func (r *ProductRepo) Get(ctx context.Context, id string) (*domain.Product, error) {
	return r.c.Get(ctx, id)
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return r.c.Create(ctx, p.ID, p)
}

func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) error {
	return r.c.Put(ctx, p.ID, p)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error { return r.c.Delete(ctx, id) }

func (r *ProductRepo) All(ctx context.Context) ([]domain.Product, error) { return r.c.Find(ctx) }

func (r *ProductRepo) ByShop(ctx context.Context, shopID string) ([]domain.Product, error) {
	return r.c.Find(ctx, docstore.Eq("shopId", shopID))
}

func (r *ProductRepo) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return r.c.Find(ctx, docstore.Eq("category", category))
}

func (r *ProductRepo) Featured(ctx context.Context) ([]domain.Product, error) {
	return r.c.Find(ctx, docstore.Eq("isFeatured", true))
}

func (r *ProductRepo) Count(ctx context.Context) (int, error) { return r.c.Count(ctx) }
