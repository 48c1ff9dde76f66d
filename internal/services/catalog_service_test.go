package services_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"bazaar/internal/apperr"
	"bazaar/internal/docstore"
	"bazaar/internal/domain"
	"bazaar/internal/repos"
	"bazaar/internal/services"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func cachedFeatured(t *testing.T, e *env) []domain.Product {
	t.Helper()
	b, err := e.cache.Get(context.Background(), services.FeaturedCacheKey)
	if err != nil {
		t.Fatalf("cache get: %v", err)
	}
	var out []domain.Product
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("cache decode: %v", err)
	}
	return out
}

func TestFeaturedCache(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	empty, err := e.cat.Featured(ctx)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("empty featured: %#v err=%v", empty, err)
	}
	e.product(t, "p1", "s1", true)
	// Served from cache, so the new product is not visible yet.
	if got, _ := e.cat.Featured(ctx); len(got) != 0 {
		t.Fatalf("expected cached empty set, got %d", len(got))
	}

	p2 := e.product(t, "p2", "s1", false)
	if _, err := e.cat.ToggleFeatured(ctx, p2.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := cachedFeatured(t, e); len(got) != 2 {
		t.Fatalf("toggle should rewrite cache, got %d", len(got))
	}

	admin := &domain.User{ID: "root", Role: domain.RoleAdmin}
	if err := e.cat.Delete(ctx, admin, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got := cachedFeatured(t, e)
	if len(got) != 1 || got[0].ID != "p2" {
		t.Fatalf("delete of featured product should refresh cache: %+v", got)
	}

	_ = e.cache.Set(ctx, services.FeaturedCacheKey, []byte("not json"), 0)
	if got, err := e.cat.Featured(ctx); err != nil || len(got) != 1 {
		t.Fatalf("corrupt cache should fall back: %d err=%v", len(got), err)
	}
}

func TestCreateAndDeleteProduct(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seller := e.user(t, "sam", domain.RoleSeller)
	other := e.user(t, "olga", domain.RoleSeller)

	p, err := e.cat.Create(ctx, seller, services.ProductInput{
		Name: " Walkman ", Price: decimal.RequireFromString("59.90"), Category: "audio", Image: pngURL,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Walkman" || p.ShopID != "sam" || p.ShopName != "Sam" || p.IsFeatured || p.Image == "" {
		t.Fatalf("unexpected product %+v", p)
	}
	if _, err := e.cat.Create(ctx, seller, services.ProductInput{Name: "x", Category: "audio", Price: decimal.NewFromInt(-1)}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("negative price: %v", err)
	}
	if _, err := e.cat.Create(ctx, seller, services.ProductInput{Name: "x", Category: "audio", Image: pdfURL}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("pdf as product image: %v", err)
	}

	if err := e.cat.Delete(ctx, other, p.ID); !apperr.Is(err, apperr.KindAccessDenied) {
		t.Fatalf("delete by other seller: %v", err)
	}
	if err := e.cat.Delete(ctx, seller, p.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if len(e.assets.deleted) != 1 || e.assets.deleted[0] != p.Image {
		t.Fatalf("image not removed: %v", e.assets.deleted)
	}
	if _, err := e.cat.Get(ctx, p.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("get deleted: %v", err)
	}
}

// productDeleteFails rejects deletes in the products collection.
type productDeleteFails struct{ docstore.Store }

func (f productDeleteFails) Delete(ctx context.Context, coll, id string) error {
	if coll == repos.CollProducts {
		return errors.New("store unavailable")
	}
	return f.Store.Delete(ctx, coll, id)
}

func TestDeleteKeepsImageWhenRecordSurvives(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seller := e.user(t, "sam", domain.RoleSeller)
	p, err := e.cat.Create(ctx, seller, services.ProductInput{Name: "Walkman", Price: decimal.NewFromInt(60), Category: "audio", Image: pngURL})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	broken := repos.New(productDeleteFails{e.store})
	cat := services.NewCatalogService(broken.Products, e.cache, e.assets)
	if err := cat.Delete(ctx, seller, p.ID); err == nil {
		t.Fatal("expected delete to fail")
	}
	if len(e.assets.deleted) != 0 {
		t.Fatalf("image removed although product remains: %v", e.assets.deleted)
	}
	if got, err := e.cat.Get(ctx, p.ID); err != nil || got.Image != p.Image {
		t.Fatalf("product should be intact: %+v err=%v", got, err)
	}
}

func TestStorefrontAndMine(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.product(t, "p1", "s1", false)
	e.product(t, "p2", "s1", false)
	e.product(t, "p3", "s2", false)

	sf, err := e.cat.ByShop(ctx, "s1")
	if err != nil || sf.Shop.ShopName != "Shop s1" || len(sf.Products) != 2 {
		t.Fatalf("storefront %+v err=%v", sf, err)
	}
	if sf, _ := e.cat.ByShop(ctx, "nobody"); sf.Shop.ShopName != "Shop" || len(sf.Products) != 0 {
		t.Fatalf("empty storefront %+v", sf)
	}
	if mine, _ := e.cat.Mine(ctx, &domain.User{ID: "s2", Role: domain.RoleSeller}); len(mine) != 1 {
		t.Fatalf("seller mine = %d", len(mine))
	}
	if mine, _ := e.cat.Mine(ctx, &domain.User{ID: "root", Role: domain.RoleAdmin}); len(mine) != 3 {
		t.Fatalf("admin mine = %d", len(mine))
	}
	if recs, _ := e.cat.Recommendations(ctx); len(recs) != 3 {
		t.Fatalf("recommendations = %d", len(recs))
	}
	for i := 4; i < 8; i++ {
		e.product(t, "p"+string(rune('0'+i)), "s3", false)
	}
	if recs, _ := e.cat.Recommendations(ctx); len(recs) != 4 {
		t.Fatalf("recommendations capped at 4, got %d", len(recs))
	}
}

func TestImportWorkbook(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seller := e.user(t, "sam", domain.RoleSeller)

	f := excelize.NewFile()
	rows := [][]any{
		{"name", "description", "price", "category"},
		{"Polaroid SX-70", "Folding instant camera", "249.00", "cameras"},
		{"Atari 2600", "", "120", "consoles"},
		{"Broken row", "no price"},
		{"Bad price", "x", "twelve", "misc"},
		{"Negative", "x", "-3", "misc"},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	res, err := e.cat.Import(ctx, seller, buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Imported != 2 || res.Skipped != 3 {
		t.Fatalf("imported=%d skipped=%d", res.Imported, res.Skipped)
	}
	if !res.Products[0].Price.Equal(decimal.RequireFromString("249")) || res.Products[1].Category != "consoles" {
		t.Fatalf("unexpected products %+v", res.Products)
	}
	if mine, _ := e.cat.Mine(ctx, seller); len(mine) != 2 {
		t.Fatalf("stored products = %d", len(mine))
	}

	if _, err := e.cat.Import(ctx, seller, bytes.NewReader([]byte("name,price\nx,1\n"))); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("csv upload: %v", err)
	}
}
