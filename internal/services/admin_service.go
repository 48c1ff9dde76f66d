package services

import (
	"context"
	"fmt"

	"bazaar/internal/apperr"
	"bazaar/internal/domain"
	"bazaar/internal/repos"
)

type AdminService struct {
	R *repos.Repos
}

func NewAdminService(r *repos.Repos) *AdminService { return &AdminService{R: r} }

type Stats struct {
	Users                int `json:"users"`
	Products             int `json:"products"`
	Reviews              int `json:"reviews"`
	PendingVerifications int `json:"pendingVerifications"`
	Conversations        int `json:"conversations"`
}

func (s *AdminService) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error
	counts := []struct {
		dst *int
		fn  func(context.Context) (int, error)
	}{
		{&st.Users, s.R.Users.Count},
		{&st.Products, s.R.Products.Count},
		{&st.Reviews, s.R.Reviews.Count},
		{&st.Conversations, s.R.Chats.CountConversations},
		{&st.PendingVerifications, func(ctx context.Context) (int, error) {
			return s.R.Verifications.CountByStatus(ctx, domain.VerificationPending)
		}},
	}
	for _, c := range counts {
		if *c.dst, err = c.fn(ctx); err != nil {
			return Stats{}, fmt.Errorf("stats: %w", err)
		}
	}
	return st, nil
}

func (s *AdminService) Users(ctx context.Context) ([]domain.PublicUser, error) {
	list, err := s.R.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PublicUser, 0, len(list))
	for i := range list {
		out = append(out, list[i].Public())
	}
	return out, nil
}

// SetRole changes a user's role. Used by the admin API and the operator CLI.
func (s *AdminService) SetRole(ctx context.Context, userID, role string) (*domain.User, error) {
	switch role {
	case domain.RoleCustomer, domain.RoleSeller, domain.RoleAdmin:
	default:
		return nil, apperr.ValidationFields("role must be one of: customer seller admin",
			map[string]string{"role": "role must be one of: customer seller admin"})
	}
	u, err := s.R.Users.ByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return s.applyRole(ctx, u, role)
}

func (s *AdminService) SetRoleByEmail(ctx context.Context, email, role string) (*domain.User, error) {
	u, err := s.R.Users.ByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return s.SetRole(ctx, u.ID, role)
}

func (s *AdminService) applyRole(ctx context.Context, u *domain.User, role string) (*domain.User, error) {
	if u.Role == role {
		return u, nil
	}
	u.Role = role
	u.UpdatedAt = now()
	if err := s.R.Users.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return u, nil
}
