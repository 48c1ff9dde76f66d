package repos

import (
	"context"
	"errors"
	"strings"
	"time"

	"bazaar/internal/docstore"
	"bazaar/internal/domain"
)

// emailClaim reserves a lowercased email for one user id.
type emailClaim struct {
	ID     string `json:"_id"`
	UserID string `json:"userId"`
}

type UserRepo struct {
	users    *docstore.Collection[domain.User]
	emails   *docstore.Collection[emailClaim]
	sessions *docstore.Collection[domain.Session]
}

func NewUserRepo(s docstore.Store) *UserRepo {
	return &UserRepo{
		users:    docstore.NewCollection[domain.User](s, CollUsers),
		emails:   docstore.NewCollection[emailClaim](s, CollUserEmails),
		sessions: docstore.NewCollection[domain.Session](s, CollSessions),
	}
}

func EmailKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Create claims the email first; a taken email yields docstore.ErrExists.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	u.EmailKey = EmailKey(u.Email)
	if err := r.emails.Create(ctx, u.EmailKey, &emailClaim{ID: u.EmailKey, UserID: u.ID}); err != nil {
		return err
	}
	if err := r.users.Create(ctx, u.ID, u); err != nil {
		_ = r.emails.Delete(ctx, u.EmailKey)
		return err
	}
	return nil
}

func (r *UserRepo) Save(ctx context.Context, u *domain.User) error {
	return r.users.Put(ctx, u.ID, u)
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	return r.users.Get(ctx, id)
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	claim, err := r.emails.Get(ctx, EmailKey(email))
	if err != nil {
		return nil, err
	}
	return r.users.Get(ctx, claim.UserID)
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	return r.users.Find(ctx)
}

func (r *UserRepo) Count(ctx context.Context) (int, error) { return r.users.Count(ctx) }

func (r *UserRepo) BindSession(ctx context.Context, sid, userID string) error {
	return r.sessions.Put(ctx, sid, &domain.Session{ID: sid, UserID: userID, LastSeen: time.Now().UTC()})
}

func (r *UserRepo) SessionUser(ctx context.Context, sid string) (*domain.User, error) {
	s, err := r.sessions.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	if s.UserID == "" {
		return nil, docstore.ErrNotFound
	}
	return r.users.Get(ctx, s.UserID)
}

func (r *UserRepo) UnbindSession(ctx context.Context, sid string) error {
	err := r.sessions.Delete(ctx, sid)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil
	}
	return err
}
