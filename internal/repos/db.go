package repos

import (
	"context"
	"fmt"
	"log"

	"bazaar/internal/config"
	"bazaar/internal/docstore"
)

// Collection names.
const (
	CollUsers         = "users"
	CollUserEmails    = "user_emails"
	CollSessions      = "sessions"
	CollProducts      = "products"
	CollReviews       = "reviews"
	CollVerifications = "seller_verifications"
	CollConversations = "chat_conversations"
	CollMessages      = "chat_messages"
)

// OpenStore connects the configured document store backend.
func OpenStore(ctx context.Context, cfg config.Config) (docstore.Store, error) {
	switch cfg.DBDriver {
	case "", "sqlite":
		log.Printf("[store] sqlite dsn=%s", cfg.DBDSN)
		return docstore.OpenSQLite(cfg.DBDSN)
	case "mongo":
		log.Printf("[store] mongo db=%s", cfg.MongoDatabase)
		return docstore.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

// Repos bundles one repository per entity over a shared store.
type Repos struct {
	Users         *UserRepo
	Products      *ProductRepo
	Reviews       *ReviewRepo
	Verifications *VerificationRepo
	Chats         *ChatRepo
}

func New(s docstore.Store) *Repos {
	return &Repos{
		Users:         NewUserRepo(s),
		Products:      NewProductRepo(s),
		Reviews:       NewReviewRepo(s),
		Verifications: NewVerificationRepo(s),
		Chats:         NewChatRepo(s),
	}
}
