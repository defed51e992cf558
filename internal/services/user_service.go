package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agamariel/catering/internal/auth"
	"github.com/agamariel/catering/internal/models"
	"github.com/agamariel/catering/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyCredentials   = errors.New("login and password are required")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrClientNotFound     = errors.New("client not found")
)

// UserService определяет интерфейс для работы с пользователями.
type UserService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, login, password string) (*models.User, string, error)
	ResolveClient(ctx context.Context, actingUserID uuid.UUID, requestedClientID *uuid.UUID) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// UserServiceImpl реализует UserService.
type UserServiceImpl struct {
	userStorage     UserStorage
	jwtSecret       string
	tokenExpiration time.Duration
}

// NewUserService создаёт новый экземпляр UserService.
func NewUserService(userStorage UserStorage, jwtSecret string, tokenExpiration time.Duration) *UserServiceImpl {
	return &UserServiceImpl{
		userStorage:     userStorage,
		jwtSecret:       jwtSecret,
		tokenExpiration: tokenExpiration,
	}
}

// Register регистрирует нового клиента.
func (s *UserServiceImpl) Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error) {
	login := strings.TrimSpace(req.Login)
	if login == "" || req.Password == "" {
		return nil, "", ErrEmptyCredentials
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = login
	}

	user := &models.User{
		ID:             uuid.New(),
		Login:          login,
		PasswordHash:   passwordHash,
		Name:           name,
		CompanyName:    req.CompanyName,
		ClientCategory: req.ClientCategory,
		Role:           models.RoleClient,
	}

	err = s.userStorage.Create(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrLoginExists) {
			return nil, "", storage.ErrLoginExists
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login аутентифицирует пользователя.
func (s *UserServiceImpl) Login(ctx context.Context, login, password string) (*models.User, string, error) {
	if login == "" || password == "" {
		return nil, "", ErrEmptyCredentials
	}

	user, err := s.userStorage.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// ResolveClient определяет клиента, от имени которого оформляется заказ.
// Без действующего пользователя возвращает ErrUnauthenticated,
// при явно указанном, но несуществующем клиенте - ErrClientNotFound.
func (s *UserServiceImpl) ResolveClient(ctx context.Context, actingUserID uuid.UUID, requestedClientID *uuid.UUID) (*models.User, error) {
	if actingUserID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	if requestedClientID != nil {
		client, err := s.userStorage.GetByID(ctx, *requestedClientID)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, fmt.Errorf("failed to get client: %w", err)
		}
		return client, nil
	}

	user, err := s.userStorage.GetByID(ctx, actingUserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetUser возвращает пользователя по ID.
func (s *UserServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userStorage.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// generateToken генерирует JWT токен для пользователя.
func (s *UserServiceImpl) generateToken(user *models.User) (string, error) {
	exp := s.tokenExpiration
	if exp <= 0 {
		exp = 24 * time.Hour
	}
	return auth.GenerateToken(user, s.jwtSecret, exp)
}
