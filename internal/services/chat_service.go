package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"bazaar/internal/apperr"
	"bazaar/internal/domain"
	"bazaar/internal/repos"

	"github.com/google/uuid"
)

const maxMessageLen = 1000

type ChatService struct {
	Chats *repos.ChatRepo
}

func NewChatService(chats *repos.ChatRepo) *ChatService { return &ChatService{Chats: chats} }

// Start returns the buyer's conversation with shopID, creating it on first use.
func (s *ChatService) Start(ctx context.Context, buyerID, shopID, shopName string) (*domain.ChatConversation, error) {
	shopID = strings.TrimSpace(shopID)
	if shopID == "" {
		return nil, apperr.ValidationFields("shopId is required", map[string]string{"shopId": "shopId is required"})
	}
	if strings.Contains(shopID, "_") {
		return nil, apperr.ValidationFields("shopId is invalid", map[string]string{"shopId": "shopId is invalid"})
	}
	if buyerID == shopID {
		return nil, apperr.Conflict("Cannot start a conversation with yourself")
	}
	shopName = strings.TrimSpace(shopName)
	if shopName == "" {
		shopName = domain.DefaultShopName
	}
	t := now()
	conv := &domain.ChatConversation{
		ID:           domain.ConversationID(buyerID, shopID),
		BuyerID:      buyerID,
		ShopID:       shopID,
		ShopName:     shopName,
		Participants: []string{buyerID, shopID},
		CreatedAt:    t,
		UpdatedAt:    t,
	}
	out, err := s.Chats.GetOrCreate(ctx, conv)
	if err != nil {
		return nil, fmt.Errorf("start conversation: %w", err)
	}
	// Ids are joined with "_", so a stored record is only handed back to its buyer.
	if out.BuyerID != buyerID || out.ShopID != shopID {
		return nil, apperr.AccessDenied("Access denied")
	}
	return out, nil
}

func (s *ChatService) Conversations(ctx context.Context, userID string) ([]domain.ChatConversation, error) {
	return s.Chats.ConversationsFor(ctx, userID)
}

// conversation loads id and checks userID takes part in it.
func (s *ChatService) conversation(ctx context.Context, userID, id string) (*domain.ChatConversation, error) {
	conv, err := s.Chats.Conversation(ctx, id)
	if err != nil {
		return nil, notFound(err, "Conversation not found")
	}
	if !conv.HasParticipant(userID) {
		return nil, apperr.AccessDenied("Access denied")
	}
	return conv, nil
}

func (s *ChatService) Messages(ctx context.Context, userID, conversationID string) ([]domain.ChatMessage, error) {
	if _, err := s.conversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.Chats.Messages(ctx, conversationID)
}

func (s *ChatService) Send(ctx context.Context, userID, senderName, conversationID, text string) (*domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.ValidationFields("Message text is required", map[string]string{"text": "Message text is required"})
	}
	if utf8.RuneCountInString(text) > maxMessageLen {
		return nil, apperr.ValidationFields("Message is too long", map[string]string{"text": "Message is too long"})
	}
	conv, err := s.conversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	senderName = strings.TrimSpace(senderName)
	if senderName == "" {
		senderName = "User"
	}

	t := now()
	msg := &domain.ChatMessage{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conversationID,
		SenderID:       userID,
		SenderName:     senderName,
		Text:           text,
		CreatedAt:      t,
	}
	if err := s.Chats.AddMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("add message: %w", err)
	}
	conv.LastMessage = text
	conv.LastMessageSenderID = userID
	conv.UpdatedAt = t
	if err := s.Chats.SaveConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("update conversation: %w", err)
	}
	return msg, nil
}
