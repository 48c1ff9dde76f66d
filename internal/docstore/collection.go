package docstore

import "context"

// Collection is a typed view over one collection of a Store.
type Collection[T any] struct {
	store Store
	name  string
}

func NewCollection[T any](s Store, name string) *Collection[T] {
	return &Collection[T]{store: s, name: name}
}

func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	var doc T
	if err := c.store.Get(ctx, c.name, id, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Collection[T]) Create(ctx context.Context, id string, doc *T) error {
	return c.store.Create(ctx, c.name, id, doc)
}

func (c *Collection[T]) Put(ctx context.Context, id string, doc *T) error {
	return c.store.Put(ctx, c.name, id, doc)
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.name, id)
}

func (c *Collection[T]) Find(ctx context.Context, conds ...Cond) ([]T, error) {
	out := []T{}
	if err := c.store.Find(ctx, c.name, &out, conds...); err != nil {
		return nil, err
	}
	return out, nil
}

// FindOne returns the first match or ErrNotFound.
func (c *Collection[T]) FindOne(ctx context.Context, conds ...Cond) (*T, error) {
	all, err := c.Find(ctx, conds...)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, ErrNotFound
	}
	return &all[0], nil
}

func (c *Collection[T]) Count(ctx context.Context, conds ...Cond) (int, error) {
	return c.store.Count(ctx, c.name, conds...)
}
