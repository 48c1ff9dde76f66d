package handlers

import (
	"errors"
	"time"

	"bazaar/internal/log"
	"bazaar/internal/services"
	"bazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth *services.AuthService
}

// rotateSID replaces whatever sid the client sent with a freshly minted one once
// the caller has authenticated. The old session, if any, is unbound.
func (h *AuthHandler) rotateSID(c *fiber.Ctx, userID string) error {
	ctx := c.UserContext()
	if old := c.Cookies("sid"); old != "" {
		if err := h.Auth.Logout(ctx, old); err != nil {
			return err
		}
	}
	sid := uuid.NewString()
	if err := h.Auth.Users.BindSession(ctx, sid, userID); err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
	})
	return nil
}

// POST /api/auth/signup
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in services.SignupInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "auth.signup")
	}
	u, err := h.Auth.Signup(c.UserContext(), in)
	if err != nil {
		return fail(c, "auth.signup", err)
	}
	if err := h.rotateSID(c, u.ID); err != nil {
		return fail(c, "auth.signup", err)
	}
	tok, err := h.Auth.IssueToken(u)
	if err != nil {
		return fail(c, "auth.signup", err)
	}
	c.Locals(log.UserIDKey, u.ID)
	log.Audit(c, "auth.signup", map[string]any{"email": u.Email})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": u.Public(), "token": tok})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "auth.login")
	}
	unauthorized := func(reason string) error {
		fields := map[string]any{"email": in.Email}
		if reason != "" {
			fields["reason"] = reason
		}
		log.Security(c, "auth.login.fail", fields)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": services.ErrBadCreds.Error()})
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		return unauthorized("bad_format")
	}
	if !validate.Password(in.Password) {
		return unauthorized("bad_password_format")
	}

	u, tok, err := h.Auth.Login(c.UserContext(), email, in.Password)
	if errors.Is(err, services.ErrBadCreds) {
		return unauthorized("")
	}
	if err != nil {
		return fail(c, "auth.login", err)
	}
	if err := h.rotateSID(c, u.ID); err != nil {
		return fail(c, "auth.login", err)
	}
	c.Locals(log.UserIDKey, u.ID)
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.JSON(fiber.Map{"user": u.Public(), "token": tok})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies("sid"); sid != "" {
		if err := h.Auth.Logout(c.UserContext(), sid); err != nil {
			return fail(c, "auth.logout", err)
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// GET /api/auth/profile
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	return c.JSON(currentUser(c).Public())
}
