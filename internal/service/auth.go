package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bookshelf/backend/internal/config"
	"github.com/bookshelf/backend/internal/db"
	"github.com/bookshelf/backend/internal/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMisconfigured      = errors.New("auth config invalid")
)

type UserRepo interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	CreateUser(ctx context.Context, email, passwordHash string) (*model.User, error)
}

type AuthService struct {
	repo   UserRepo
	hasher *PasswordHasher
	tokens *TokenManager
	log    logrus.FieldLogger
}

func NewAuthService(repo UserRepo, cfg config.AuthConfig, log logrus.FieldLogger) (*AuthService, error) {
	tokens, err := NewTokenManager(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	cost, err := parseCost(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid BCRYPT_COST", ErrMisconfigured)
	}
	hasher, err := NewPasswordHasher(cost)
	if err != nil {
		return nil, err
	}

	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		log:    log,
	}, nil
}

// Tokens exposes the verifier used by the auth middleware.
func (s *AuthService) Tokens() *TokenManager {
	return s.tokens
}

func (s *AuthService) Register(ctx context.Context, email, password string) (string, error) {
	log := s.log.WithField("email", email)

	_, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		log.Info("registration rejected: user already exists")
		return "", ErrUserExists
	}
	if !errors.Is(err, db.ErrNotFound) {
		return "", fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, email, hash)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			log.Info("registration rejected: concurrent duplicate")
			return "", ErrUserExists
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}
	log.WithField("user_id", user.ID).Info("user registered")
	return token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	log := s.log.WithField("email", email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			log.Info("login failed: unknown email")
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		log.Info("login failed: wrong password")
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}
	log.WithField("user_id", user.ID).Info("login succeeded")
	return token, nil
}

// CurrentUser loads the user behind an authenticated request. A missing user
// is reported as an ordinary error since the token was already verified.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}
	return user, nil
}

func parseCost(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return bcrypt.DefaultCost, nil
	}
	return strconv.Atoi(value)
}
