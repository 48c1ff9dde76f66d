package repos

import (
	"context"
	"errors"
	"log"
	"time"

	"bazaar/internal/docstore"
	"bazaar/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const SeedPassword = "Passw0rd!"

// Seed inserts demo accounts and a small storefront. Safe to run on every start.
func Seed(ctx context.Context, r *Repos) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	users := []domain.User{
		{ID: "u-admin", Name: "Admin", Email: "admin@bazaar.test", Role: domain.RoleAdmin},
		{ID: "u-seller", Name: "Retro Corner", Email: "seller@bazaar.test", Role: domain.RoleSeller},
		{ID: "u-alice", Name: "Alice", Email: "alice@bazaar.test", Role: domain.RoleCustomer},
		{ID: "u-bob", Name: "Bob", Email: "bob@bazaar.test", Role: domain.RoleCustomer},
	}
	added := 0
	for i := range users {
		u := &users[i]
		u.Hash, u.CartItems, u.CreatedAt, u.UpdatedAt = string(hash), []domain.CartItem{}, now, now
		if err := r.Users.Create(ctx, u); err != nil {
			if errors.Is(err, docstore.ErrExists) {
				continue
			}
			return err
		}
		added++
	}

	products := []domain.Product{
		{ID: "gbc-001", Name: "Game Boy Color", Description: "Handheld console, tested and cleaned.",
			Price: decimal.RequireFromString("129.99"), Category: "consoles", IsFeatured: true},
		{ID: "snes-001", Name: "Super Nintendo Console", Description: "Classic 16-bit console with controller.",
			Price: decimal.RequireFromString("199.00"), Category: "consoles"},
		{ID: "radio-001", Name: "Philco 1939 Radio", Description: "Vintage vacuum tube radio.",
			Price: decimal.RequireFromString("349.50"), Category: "radios", IsFeatured: true},
		{ID: "zenith-500", Name: "Zenith Royal 500", Description: "Pocket transistor radio, works on 9V.",
			Price: decimal.RequireFromString("89.00"), Category: "radios"},
	}
	for i := range products {
		p := &products[i]
		p.ShopID, p.ShopName, p.CreatedAt, p.UpdatedAt = "u-seller", "Retro Corner", now, now
		if err := r.Products.Create(ctx, p); err != nil {
			if errors.Is(err, docstore.ErrExists) {
				continue
			}
			return err
		}
		added++
	}
	if added > 0 {
		log.Printf("[seed] inserted %d demo records", added)
	}
	return nil
}
