package domain

import (
	"slices"
	"time"
)

type ChatConversation struct {
	ID                  string    `json:"_id"`
	BuyerID             string    `json:"buyerId"`
	ShopID              string    `json:"shopId"`
	ShopName            string    `json:"shopName"`
	Participants        []string  `json:"participants"`
	LastMessage         string    `json:"lastMessage"`
	LastMessageSenderID string    `json:"lastMessageSenderId"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func ConversationID(buyerID, shopID string) string { return buyerID + "_" + shopID }

func (c *ChatConversation) HasParticipant(userID string) bool {
	return userID != "" && slices.Contains(c.Participants, userID)
}

type ChatMessage struct {
	ID             string    `json:"_id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	SenderName     string    `json:"senderName"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"createdAt"`
}
