package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers, matching the storefront client.
	decimal.MarshalJSONWithoutQuotes = true
}

const DefaultShopName = "Shop"

type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	ShopID      string          `json:"shopId"`
	ShopName    string          `json:"shopName"`
	IsFeatured  bool            `json:"isFeatured"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductCard is the trimmed shape used for recommendation strips.
type ProductCard struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
	ShopID      string          `json:"shopId"`
	ShopName    string          `json:"shopName"`
}

func (p *Product) Card() ProductCard {
	return ProductCard{ID: p.ID, Name: p.Name, Description: p.Description, Image: p.Image,
		Price: p.Price, ShopID: p.ShopID, ShopName: p.ShopName}
}

type Shop struct {
	ShopID   string `json:"shopId"`
	ShopName string `json:"shopName"`
}

type Review struct {
	ID        string    `json:"_id"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ReviewSummary struct {
	TotalReviews  int     `json:"totalReviews"`
	AverageRating float64 `json:"averageRating"`
}
