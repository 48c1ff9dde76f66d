package services_test

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"bazaar/internal/assets"
	"bazaar/internal/cache"
	"bazaar/internal/docstore"
	"bazaar/internal/domain"
	"bazaar/internal/repos"
	"bazaar/internal/services"
)

var (
	pngURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString(append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...))
	pdfURL = "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("%PDF-1.4\n"))
)

type env struct {
	store  docstore.Store
	repos  *repos.Repos
	assets *recordingAssets
	cache  *cache.Memory

	auth   *services.AuthService
	verify *services.VerificationService
	chat   *services.ChatService
	review *services.ReviewService
	cat    *services.CatalogService
	cart   *services.CartService
	admin  *services.AdminService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	s, err := docstore.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	r := repos.New(s)
	a := &recordingAssets{Local: assets.NewLocal(t.TempDir(), "/media")}
	c := cache.NewMemory()
	return &env{
		store:  s,
		repos:  r,
		assets: a,
		cache:  c,
		auth:   services.NewAuthService(r.Users, strings.Repeat("k", 32), time.Hour),
		verify: services.NewVerificationService(r, a),
		chat:   services.NewChatService(r.Chats),
		review: services.NewReviewService(r),
		cat:    services.NewCatalogService(r.Products, c, a),
		cart:   services.NewCartService(r),
		admin:  services.NewAdminService(r),
	}
}

func (e *env) user(t *testing.T, id, role string) *domain.User {
	t.Helper()
	u := &domain.User{ID: id, Name: strings.ToUpper(id[:1]) + id[1:], Email: id + "@bazaar.test", Role: role, CartItems: []domain.CartItem{}}
	if err := e.repos.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", id, err)
	}
	return u
}

func (e *env) product(t *testing.T, id, shopID string, featured bool) *domain.Product {
	t.Helper()
	p := &domain.Product{ID: id, Name: id, ShopID: shopID, ShopName: "Shop " + shopID, Category: "misc", IsFeatured: featured}
	if err := e.repos.Products.Create(context.Background(), p); err != nil {
		t.Fatalf("create product %s: %v", id, err)
	}
	return p
}

// recordingAssets wraps the local store, records deletions and can fail uploads
// into one folder.
type recordingAssets struct {
	*assets.Local
	failFolder string

	mu      sync.Mutex
	deleted []string
}

func (r *recordingAssets) Upload(ctx context.Context, folder string, p assets.Payload) (assets.Asset, error) {
	if folder == r.failFolder {
		return assets.Asset{}, errors.New("storage unavailable")
	}
	return r.Local.Upload(ctx, folder, p)
}

func (r *recordingAssets) Delete(ctx context.Context, url string) error {
	r.mu.Lock()
	r.deleted = append(r.deleted, url)
	r.mu.Unlock()
	return r.Local.Delete(ctx, url)
}
