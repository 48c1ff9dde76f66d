package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"bazaar/internal/apperr"
	"bazaar/internal/assets"
	"bazaar/internal/cache"
	"bazaar/internal/domain"
	applog "bazaar/internal/log"
	"bazaar/internal/repos"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	FeaturedCacheKey    = "featured_products"
	folderProducts      = "products"
	recommendationCount = 4
)

type CatalogService struct {
	Products *repos.ProductRepo
	Cache    cache.Cache
	Assets   assets.Store
}

func NewCatalogService(products *repos.ProductRepo, c cache.Cache, store assets.Store) *CatalogService {
	return &CatalogService{Products: products, Cache: c, Assets: store}
}

func (s *CatalogService) All(ctx context.Context) ([]domain.Product, error) {
	return s.Products.All(ctx)
}

// Mine lists the caller's products; admins see the whole catalog.
func (s *CatalogService) Mine(ctx context.Context, u *domain.User) ([]domain.Product, error) {
	if u.IsAdmin() {
		return s.Products.All(ctx)
	}
	return s.Products.ByShop(ctx, u.ID)
}

func (s *CatalogService) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.Products.ByCategory(ctx, category)
}

type Storefront struct {
	Shop     domain.Shop      `json:"shop"`
	Products []domain.Product `json:"products"`
}

func (s *CatalogService) ByShop(ctx context.Context, shopID string) (Storefront, error) {
	list, err := s.Products.ByShop(ctx, shopID)
	if err != nil {
		return Storefront{}, err
	}
	name := domain.DefaultShopName
	for _, p := range list {
		if p.ShopName != "" {
			name = p.ShopName
			break
		}
	}
	return Storefront{Shop: domain.Shop{ShopID: shopID, ShopName: name}, Products: list}, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.Products.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "Product not found")
	}
	return p, nil
}

// Recommendations picks up to four products at random.
func (s *CatalogService) Recommendations(ctx context.Context) ([]domain.ProductCard, error) {
	all, err := s.Products.All(ctx)
	if err != nil {
		return nil, err
	}
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if len(all) > recommendationCount {
		all = all[:recommendationCount]
	}
	out := make([]domain.ProductCard, 0, len(all))
	for i := range all {
		out = append(out, all[i].Card())
	}
	return out, nil
}

// Featured serves the cached featured set, computing and caching it on a miss.
func (s *CatalogService) Featured(ctx context.Context) ([]domain.Product, error) {
	if b, err := s.Cache.Get(ctx, FeaturedCacheKey); err == nil {
		var out []domain.Product
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		applog.Event(applog.LevelWarn, "cache.corrupt", nil, map[string]any{"key": FeaturedCacheKey})
	} else if !errors.Is(err, cache.ErrMiss) {
		applog.Event(applog.LevelWarn, "cache.get", err, map[string]any{"key": FeaturedCacheKey})
	}
	return s.refreshFeatured(ctx)
}

// refreshFeatured recomputes the featured set and rewrites the cache entry. Cache
// write failures are logged and do not fail the request.
func (s *CatalogService) refreshFeatured(ctx context.Context) ([]domain.Product, error) {
	list, err := s.Products.Featured(ctx)
	if err != nil {
		return nil, fmt.Errorf("load featured: %w", err)
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.Set(ctx, FeaturedCacheKey, b, 0); err != nil {
		applog.Event(applog.LevelWarn, "cache.set", err, map[string]any{"key": FeaturedCacheKey})
	}
	return list, nil
}

type ProductInput struct {
	Name        string          `json:"name" validate:"required,max=120"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category" validate:"required,max=60"`
}

func (s *CatalogService) Create(ctx context.Context, owner *domain.User, in ProductInput) (*domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if err := checkInput(in); err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, apperr.ValidationFields("price must not be negative", map[string]string{"price": "price must not be negative"})
	}

	var image string
	if strings.TrimSpace(in.Image) != "" {
		p, err := assets.Decode(in.Image)
		if err != nil || !p.IsImage() {
			return nil, apperr.ValidationFields("image must be an image data URL", map[string]string{"image": "image must be an image data URL"})
		}
		a, err := s.Assets.Upload(ctx, folderProducts, p)
		if err != nil {
			return nil, fmt.Errorf("upload product image: %w", err)
		}
		image = a.URL
	}

	shopName := strings.TrimSpace(owner.Name)
	if shopName == "" {
		shopName = domain.DefaultShopName
	}
	t := now()
	p := &domain.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       image,
		Category:    in.Category,
		ShopID:      owner.ID,
		ShopName:    shopName,
		CreatedAt:   t,
		UpdatedAt:   t,
	}
	if err := s.Products.Create(ctx, p); err != nil {
		if image != "" {
			_ = s.Assets.Delete(context.Background(), image)
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *CatalogService) ToggleFeatured(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.IsFeatured = !p.IsFeatured
	p.UpdatedAt = now()
	if err := s.Products.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	if _, err := s.refreshFeatured(ctx); err != nil {
		applog.Event(applog.LevelError, "cache.refresh", err, map[string]any{"after": "toggle"})
	}
	return p, nil
}

// Delete removes a product owned by u (any product for admins). The stored image
// is removed best-effort once the record is gone.
func (s *CatalogService) Delete(ctx context.Context, u *domain.User, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !u.IsAdmin() && p.ShopID != u.ID {
		return apperr.AccessDenied("Access denied - You can delete only your products")
	}
	if err := s.Products.Delete(ctx, id); err != nil {
		return notFound(err, "Product not found")
	}
	if p.Image != "" {
		if err := s.Assets.Delete(ctx, p.Image); err != nil {
			applog.Event(applog.LevelWarn, "assets.delete", err, map[string]any{"url": p.Image})
		}
	}
	if p.IsFeatured {
		if _, err := s.refreshFeatured(ctx); err != nil {
			applog.Event(applog.LevelError, "cache.refresh", err, map[string]any{"after": "delete"})
		}
	}
	return nil
}

type ImportResult struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Products []domain.Product `json:"products"`
}

// Import reads products from the first sheet of an .xlsx workbook. The first row
// is a header; columns are name, description, price, category.
func (s *CatalogService) Import(ctx context.Context, owner *domain.User, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Validation("file must be an .xlsx workbook")
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.Validation("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperr.Validation("could not read worksheet")
	}

	res := &ImportResult{Products: []domain.Product{}}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 4 {
			res.Skipped++
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(row[2]))
		if err != nil || price.IsNegative() {
			res.Skipped++
			continue
		}
		p, err := s.Create(ctx, owner, ProductInput{Name: row[0], Description: row[1], Price: price, Category: row[3]})
		if apperr.Is(err, apperr.KindValidation) {
			res.Skipped++
			continue
		}
		if err != nil {
			return nil, err
		}
		res.Imported++
		res.Products = append(res.Products, *p)
	}
	return res, nil
}
