package handlers

import (
	"strings"

	"bazaar/internal/domain"
	applog "bazaar/internal/log"
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

const userKey = "user"

// Authenticate attaches the caller to the request when a session cookie or bearer
// token resolves. It never rejects; routes opt in with Require.
func Authenticate(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var u *domain.User
		if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
			if tu, err := auth.TokenUser(c.UserContext(), strings.TrimPrefix(h, "Bearer ")); err == nil {
				u = tu
			} else {
				applog.Security(c, "auth.token.invalid", nil)
			}
		} else if sid := c.Cookies("sid"); sid != "" {
			if su, err := auth.CurrentUser(c.UserContext(), sid); err == nil {
				u = su
			}
		}
		if u != nil {
			c.Locals(userKey, u)
			c.Locals(applog.UserIDKey, u.ID)
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals(userKey).(*domain.User)
	return u
}

type Capability int

const (
	Authenticated Capability = iota
	SellerOrAdmin
	AdminOnly
)

func (cp Capability) String() string {
	switch cp {
	case SellerOrAdmin:
		return "seller-or-admin"
	case AdminOnly:
		return "admin"
	default:
		return "authenticated"
	}
}

func (cp Capability) allows(u *domain.User) bool {
	switch cp {
	case SellerOrAdmin:
		return u.IsSellerOrAdmin()
	case AdminOnly:
		return u.IsAdmin()
	default:
		return true
	}
}

// Require rejects callers that lack the capability: 401 when anonymous, 403 otherwise.
func Require(cp Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not authorized - please log in"})
		}
		if !cp.allows(u) {
			applog.Security(c, "access.denied", map[string]any{"require": cp.String(), "role": u.Role})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Access denied - " + cp.String() + " only"})
		}
		return c.Next()
	}
}
