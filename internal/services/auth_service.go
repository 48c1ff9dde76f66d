package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bazaar/internal/apperr"
	"bazaar/internal/docstore"
	"bazaar/internal/domain"
	"bazaar/internal/repos"
	"bazaar/internal/validate"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = apperr.Unauthorized("Invalid email or password")

type AuthService struct {
	Users  *repos.UserRepo
	Secret []byte
	TTL    time.Duration
}

func NewAuthService(users *repos.UserRepo, secret string, ttl time.Duration) *AuthService {
	return &AuthService{Users: users, Secret: []byte(secret), TTL: ttl}
}

type SignupInput struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := checkInput(in); err != nil {
		return nil, err
	}
	if !validate.Password(in.Password) {
		return nil, apperr.ValidationFields("password must include upper, lower, digit and symbol",
			map[string]string{"password": "password must include upper, lower, digit and symbol"})
	}
	return s.CreateUser(ctx, in.Name, in.Email, in.Password, domain.RoleCustomer)
}

// CreateUser stores a new account with a bcrypt hash. Used by signup and the operator CLI.
func (s *AuthService) CreateUser(ctx context.Context, name, email, password, role string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	t := now()
	u := &domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Hash:      string(hash),
		Role:      role,
		CartItems: []domain.CartItem{},
		CreatedAt: t,
		UpdatedAt: t,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, docstore.ErrExists) {
			return nil, apperr.Conflict("User already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login checks credentials and returns a signed API token. Session binding is left
// to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(ctx, email)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, "", ErrBadCreds
	}
	if err != nil {
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	tok, err := s.IssueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.Users.UnbindSession(ctx, sid)
}

func (s *AuthService) CurrentUser(ctx context.Context, sid string) (*domain.User, error) {
	return s.Users.SessionUser(ctx, sid)
}

func (s *AuthService) IssueToken(u *domain.User) (string, error) {
	t := now()
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    "bazaar",
			IssuedAt:  jwt.NewNumericDate(t),
			ExpiresAt: jwt.NewNumericDate(t.Add(s.TTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// TokenUser resolves a bearer token to its user. The record is re-read so role
// changes apply before the token expires.
func (s *AuthService) TokenUser(ctx context.Context, token string) (*domain.User, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithIssuer("bazaar"), jwt.WithExpirationRequired())
	if err != nil {
		return nil, apperr.Unauthorized("Invalid token")
	}
	u, err := s.Users.ByID(ctx, claims.Subject)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperr.Unauthorized("Invalid token")
	}
	return u, err
}
