package repos

import (
	"context"
	"errors"
	"slices"
	"strings"

	"bazaar/internal/docstore"
	"bazaar/internal/domain"
)

type ChatRepo struct {
	convs *docstore.Collection[domain.ChatConversation]
	msgs  *docstore.Collection[domain.ChatMessage]
}

func NewChatRepo(s docstore.Store) *ChatRepo {
	return &ChatRepo{
		convs: docstore.NewCollection[domain.ChatConversation](s, CollConversations),
		msgs:  docstore.NewCollection[domain.ChatMessage](s, CollMessages),
	}
}

// GetOrCreate inserts conv unless a conversation with its id already exists, and
// returns whichever record is stored.
func (r *ChatRepo) GetOrCreate(ctx context.Context, conv *domain.ChatConversation) (*domain.ChatConversation, error) {
	err := r.convs.Create(ctx, conv.ID, conv)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, docstore.ErrExists) {
		return nil, err
	}
	return r.convs.Get(ctx, conv.ID)
}

func (r *ChatRepo) Conversation(ctx context.Context, id string) (*domain.ChatConversation, error) {
	return r.convs.Get(ctx, id)
}

func (r *ChatRepo) SaveConversation(ctx context.Context, conv *domain.ChatConversation) error {
	return r.convs.Put(ctx, conv.ID, conv)
}

// ConversationsFor lists conversations userID participates in, most recently updated first.
func (r *ChatRepo) ConversationsFor(ctx context.Context, userID string) ([]domain.ChatConversation, error) {
	out, err := r.convs.Find(ctx, docstore.Contains("participants", userID))
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(out, func(a, b domain.ChatConversation) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	return out, nil
}

func (r *ChatRepo) CountConversations(ctx context.Context) (int, error) { return r.convs.Count(ctx) }

func (r *ChatRepo) AddMessage(ctx context.Context, m *domain.ChatMessage) error {
	return r.msgs.Create(ctx, m.ID, m)
}

// Messages returns a conversation's messages oldest first. Ids are time ordered,
// so they break ties between equal timestamps.
func (r *ChatRepo) Messages(ctx context.Context, conversationID string) ([]domain.ChatMessage, error) {
	out, err := r.msgs.Find(ctx, docstore.Eq("conversationId", conversationID))
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b domain.ChatMessage) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}
