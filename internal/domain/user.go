package domain

import "time"

const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// User is the stored account record. Hash travels with the document so it must
// never be rendered directly; handlers respond with Public().
type User struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	EmailKey  string     `json:"emailKey"` // lowercased email for lookups
	Hash      string     `json:"password"`
	Role      string     `json:"role"`
	CartItems []CartItem `json:"cartItems"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type PublicUser struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CartItems []CartItem `json:"cartItems"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	items := u.CartItems
	if items == nil {
		items = []CartItem{}
	}
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CartItems: items, CreatedAt: u.CreatedAt}
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u *User) IsSellerOrAdmin() bool { return u.Role == RoleSeller || u.Role == RoleAdmin }

type Session struct {
	ID       string    `json:"_id"`
	UserID   string    `json:"userId"`
	LastSeen time.Time `json:"lastSeen"`
}
