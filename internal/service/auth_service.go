package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/auth"
	"fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/repository"
)

// ExpiryLayout is the format of the exp field returned on login.
const ExpiryLayout = "01-02-2006 15:04"

// Session is the result of a successful login.
type Session struct {
	Token     string         `json:"token"`
	Exp       string         `json:"exp"`
	User      model.UserView `json:"user"`
	ExpiresAt time.Time      `json:"-"`
}

// AuthService handles authentication operations.
// Credential and token failures are reported as errors.ErrUnauthorized;
// storage failures are returned wrapped.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	Me(ctx context.Context, userID uint) (*model.User, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		now:        time.Now,
	}
}

// Login checks the credentials and issues a token.
func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, errors.ErrNotFound) {
		return nil, errors.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(password)); err != nil {
		return nil, errors.ErrUnauthorized
	}

	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("user logged in")
	return &Session{
		Token:     token.Value,
		Exp:       token.ExpiresAt.Format(ExpiryLayout),
		User:      user.View(),
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// Authenticate validates a bearer token and rejects revoked ones.
func (s *authService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.Validate(token)
	if err != nil {
		return nil, errors.ErrUnauthorized
	}
	if s.tokenStore.IsRevoked(ctx, claims.ID) {
		return nil, errors.ErrUnauthorized
	}
	return claims, nil
}

// Me loads the user a token was issued to.
func (s *authService) Me(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, errors.ErrNotFound) {
		return nil, errors.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// Logout revokes the token described by claims until it expires.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return errors.ErrUnauthorized
	}
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if err := s.tokenStore.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": claims.UserID}).Info("user logged out")
	return nil
}
