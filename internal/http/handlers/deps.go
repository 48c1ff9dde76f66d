package handlers

import (
	"time"

	"bazaar/internal/assets"
	"bazaar/internal/cache"
	"bazaar/internal/config"
	applog "bazaar/internal/log"
	"bazaar/internal/repos"
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler         *AuthHandler
	VerificationHandler *VerificationHandler
	ChatHandler         *ChatHandler
	ReviewHandler       *ReviewHandler
	ProductHandler      *ProductHandler
	CartHandler         *CartHandler
	AdminHandler        *AdminHandler

	// LoginMax is the number of login attempts allowed per IP per LoginWindow.
	LoginMax    int
	LoginWindow time.Duration
}

func NewDeps(r *repos.Repos, cfg config.Config, c cache.Cache, store assets.Store) *Deps {
	authSvc := services.NewAuthService(r.Users, cfg.JWTSecret, cfg.TokenTTL)
	catalogSvc := services.NewCatalogService(r.Products, c, store)

	return &Deps{
		Auth:                authSvc,
		AuthHandler:         &AuthHandler{Auth: authSvc},
		VerificationHandler: &VerificationHandler{Verify: services.NewVerificationService(r, store)},
		ChatHandler:         &ChatHandler{Chat: services.NewChatService(r.Chats)},
		ReviewHandler:       &ReviewHandler{Reviews: services.NewReviewService(r)},
		ProductHandler:      &ProductHandler{Catalog: catalogSvc},
		CartHandler:         &CartHandler{Cart: services.NewCartService(r)},
		AdminHandler:        &AdminHandler{Admin: services.NewAdminService(r)},
		LoginMax:            5,
		LoginWindow:         10 * time.Minute,
	}
}

// Mount registers the JSON API under /api.
func Mount(app *fiber.App, d *Deps) {
	api := app.Group("/api", Authenticate(d.Auth))

	auth := api.Group("/auth")
	auth.Post("/signup", d.AuthHandler.Signup)
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        d.LoginMax,
		Expiration: d.LoginWindow,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	auth.Post("/logout", d.AuthHandler.Logout)
	auth.Get("/profile", Require(Authenticated), d.AuthHandler.Profile)

	ver := api.Group("/verifications")
	ver.Post("/submit", Require(Authenticated), d.VerificationHandler.Submit)
	ver.Get("/me", Require(Authenticated), d.VerificationHandler.Me)
	ver.Get("/", Require(AdminOnly), d.VerificationHandler.List)
	ver.Patch("/:userId/status", Require(AdminOnly), d.VerificationHandler.Review)

	chats := api.Group("/chats", Require(Authenticated))
	chats.Post("/start", d.ChatHandler.Start)
	chats.Get("/conversations", d.ChatHandler.Conversations)
	chats.Get("/:conversationId/messages", d.ChatHandler.Messages)
	chats.Post("/:conversationId/messages", d.ChatHandler.Send)

	reviews := api.Group("/reviews")
	reviews.Get("/product/:productId", d.ReviewHandler.ByProduct)
	reviews.Post("/", Require(Authenticated), d.ReviewHandler.Submit)

	prod := api.Group("/products")
	prod.Get("/", Require(AdminOnly), d.ProductHandler.All)
	prod.Get("/mine", Require(SellerOrAdmin), d.ProductHandler.Mine)
	prod.Get("/featured", d.ProductHandler.Featured)
	prod.Get("/category/:category", d.ProductHandler.ByCategory)
	prod.Get("/shop/:shopId", d.ProductHandler.ByShop)
	prod.Get("/recommendations", d.ProductHandler.Recommendations)
	prod.Get("/:id", d.ProductHandler.Get)
	prod.Post("/", Require(SellerOrAdmin), d.ProductHandler.Create)
	prod.Post("/import", Require(SellerOrAdmin), d.ProductHandler.Import)
	prod.Patch("/:id", Require(AdminOnly), d.ProductHandler.ToggleFeatured)
	prod.Delete("/:id", Require(SellerOrAdmin), d.ProductHandler.Delete)

	cart := api.Group("/cart", Require(Authenticated))
	cart.Get("/", d.CartHandler.View)
	cart.Post("/", d.CartHandler.Add)
	cart.Put("/:productId", d.CartHandler.Update)
	cart.Delete("/", d.CartHandler.Clear)

	admin := api.Group("/admin", Require(AdminOnly))
	admin.Get("/stats", d.AdminHandler.Stats)
	admin.Get("/users", d.AdminHandler.Users)
	admin.Patch("/users/:id/role", d.AdminHandler.SetRole)

	api.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Not found"})
	})
}
