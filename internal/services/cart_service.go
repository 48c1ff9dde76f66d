package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"bazaar/internal/docstore"
	"bazaar/internal/domain"
	"bazaar/internal/repos"
	"bazaar/internal/validate"

	"github.com/shopspring/decimal"
)

type CartService struct {
	Users    *repos.UserRepo
	Products *repos.ProductRepo
}

func NewCartService(r *repos.Repos) *CartService {
	return &CartService{Users: r.Users, Products: r.Products}
}

type CartLine struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

type CartView struct {
	Items []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// View resolves the cart against the catalog. Items whose product is gone are dropped.
func (s *CartService) View(ctx context.Context, u *domain.User) (CartView, error) {
	view := CartView{Items: []CartLine{}, Total: decimal.Zero}
	for _, it := range u.CartItems {
		p, err := s.Products.Get(ctx, it.ProductID)
		if errors.Is(err, docstore.ErrNotFound) {
			continue
		}
		if err != nil {
			return CartView{}, fmt.Errorf("load product: %w", err)
		}
		view.Items = append(view.Items, CartLine{Product: *p, Quantity: it.Quantity})
		view.Total = view.Total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return view, nil
}

// Add puts one unit of productID in the cart, or one more if it is already there.
func (s *CartService) Add(ctx context.Context, u *domain.User, productID string) (CartView, error) {
	if _, err := s.Products.Get(ctx, productID); err != nil {
		return CartView{}, notFound(err, "Product not found")
	}
	i := slices.IndexFunc(u.CartItems, func(it domain.CartItem) bool { return it.ProductID == productID })
	if i >= 0 {
		u.CartItems[i].Quantity = validate.Qty(u.CartItems[i].Quantity + 1)
	} else {
		u.CartItems = append(u.CartItems, domain.CartItem{ProductID: productID, Quantity: 1})
	}
	return s.save(ctx, u)
}

// Update sets the quantity of a line; zero or less removes it.
func (s *CartService) Update(ctx context.Context, u *domain.User, productID string, qty int) (CartView, error) {
	i := slices.IndexFunc(u.CartItems, func(it domain.CartItem) bool { return it.ProductID == productID })
	if i < 0 {
		return CartView{}, notFound(docstore.ErrNotFound, "Product not in cart")
	}
	if qty <= 0 {
		u.CartItems = slices.Delete(u.CartItems, i, i+1)
	} else {
		u.CartItems[i].Quantity = validate.Qty(qty)
	}
	return s.save(ctx, u)
}

func (s *CartService) Clear(ctx context.Context, u *domain.User) (CartView, error) {
	u.CartItems = []domain.CartItem{}
	return s.save(ctx, u)
}

func (s *CartService) save(ctx context.Context, u *domain.User) (CartView, error) {
	u.UpdatedAt = now()
	if err := s.Users.Save(ctx, u); err != nil {
		return CartView{}, fmt.Errorf("save cart: %w", err)
	}
	return s.View(ctx, u)
}
