package handlers

import (
	applog "bazaar/internal/log"
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	Chat *services.ChatService
}

type startInput struct {
	ShopID   string `json:"shopId"`
	ShopName string `json:"shopName"`
}

func (h *ChatHandler) Start(c *fiber.Ctx) error {
	var in startInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "chat.start")
	}
	conv, err := h.Chat.Start(c.UserContext(), currentUser(c).ID, in.ShopID, in.ShopName)
	if err != nil {
		return fail(c, "chat.start", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"conversation": conv})
}

func (h *ChatHandler) Conversations(c *fiber.Ctx) error {
	list, err := h.Chat.Conversations(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return fail(c, "chat.conversations", err)
	}
	return c.JSON(fiber.Map{"conversations": list})
}

func (h *ChatHandler) Messages(c *fiber.Ctx) error {
	list, err := h.Chat.Messages(c.UserContext(), currentUser(c).ID, c.Params("conversationId"))
	if err != nil {
		return fail(c, "chat.messages", err)
	}
	return c.JSON(fiber.Map{"messages": list})
}

type sendInput struct {
	Text string `json:"text"`
}

func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var in sendInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "chat.send")
	}
	u := currentUser(c)
	convID := c.Params("conversationId")
	msg, err := h.Chat.Send(c.UserContext(), u.ID, u.Name, convID, in.Text)
	if err != nil {
		return fail(c, "chat.send", err)
	}
	applog.Audit(c, "chat.send", map[string]any{"conversation_id": convID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg})
}
