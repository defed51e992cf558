package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agamariel/catering/internal/auth"
	"github.com/agamariel/catering/internal/models"
	"github.com/agamariel/catering/internal/storage"
	"github.com/google/uuid"
)

func TestUserServiceImpl_Register(t *testing.T) {
	ctx := context.Background()
	secret := "test-secret"
	company := "Morning Bakery"

	tests := []struct {
		name        string
		req         models.RegisterRequest
		mockStorage *storage.MockUserStorage
		wantErr     bool
		errType     error
	}{
		{
			name: "successful registration",
			req: models.RegisterRequest{
				Login:       "test@example.com",
				Password:    "password123",
				Name:        "Anna",
				CompanyName: &company,
			},
			mockStorage: &storage.MockUserStorage{
				CreateFunc: func(ctx context.Context, user *models.User) error {
					if user.Role != models.RoleClient {
						t.Errorf("new user role = %q, want client", user.Role)
					}
					if user.PasswordHash == "password123" {
						t.Error("password must be hashed")
					}
					return nil
				},
			},
		},
		{
			name:        "empty login",
			req:         models.RegisterRequest{Login: "  ", Password: "password123"},
			mockStorage: &storage.MockUserStorage{},
			wantErr:     true,
			errType:     ErrEmptyCredentials,
		},
		{
			name:        "empty password",
			req:         models.RegisterRequest{Login: "test@example.com"},
			mockStorage: &storage.MockUserStorage{},
			wantErr:     true,
			errType:     ErrEmptyCredentials,
		},
		{
			name: "login already exists",
			req:  models.RegisterRequest{Login: "existing@example.com", Password: "password123"},
			mockStorage: &storage.MockUserStorage{
				CreateFunc: func(ctx context.Context, user *models.User) error {
					return storage.ErrLoginExists
				},
			},
			wantErr: true,
			errType: storage.ErrLoginExists,
		},
		{
			name: "storage error",
			req:  models.RegisterRequest{Login: "test@example.com", Password: "password123"},
			mockStorage: &storage.MockUserStorage{
				CreateFunc: func(ctx context.Context, user *models.User) error {
					return errors.New("database error")
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewUserService(tt.mockStorage, secret, time.Hour)
			user, token, err := service.Register(ctx, tt.req)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.errType != nil && !errors.Is(err, tt.errType) {
				t.Errorf("Register() error = %v, want %v", err, tt.errType)
			}
			if tt.wantErr {
				return
			}

			if token == "" {
				t.Error("Register() returned empty token")
			}
			claims, err := auth.ValidateToken(token, secret)
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}
			if claims.UserID != user.ID {
				t.Errorf("token user = %v, want %v", claims.UserID, user.ID)
			}
			if user.Name != tt.req.Name {
				t.Errorf("Name = %q, want %q", user.Name, tt.req.Name)
			}
		})
	}
}

func TestUserServiceImpl_RegisterDefaultsName(t *testing.T) {
	service := NewUserService(&storage.MockUserStorage{}, "secret", time.Hour)

	user, _, err := service.Register(context.Background(), models.RegisterRequest{Login: "solo@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Name != "solo@example.com" {
		t.Errorf("Name = %q, want login", user.Name)
	}
}

func TestUserServiceImpl_Login(t *testing.T) {
	ctx := context.Background()
	secret := "test-secret"

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	existing := &models.User{ID: uuid.New(), Login: "test@example.com", PasswordHash: hash, Role: models.RoleCoordinator}

	tests := []struct {
		name        string
		login       string
		password    string
		mockStorage *storage.MockUserStorage
		wantErr     error
	}{
		{
			name:     "successful login",
			login:    "test@example.com",
			password: "password123",
			mockStorage: &storage.MockUserStorage{
				GetByLoginFunc: func(ctx context.Context, login string) (*models.User, error) {
					return existing, nil
				},
			},
		},
		{
			name:        "empty credentials",
			login:       "",
			password:    "",
			mockStorage: &storage.MockUserStorage{},
			wantErr:     ErrEmptyCredentials,
		},
		{
			name:        "unknown login",
			login:       "nobody@example.com",
			password:    "password123",
			mockStorage: &storage.MockUserStorage{},
			wantErr:     ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			login:    "test@example.com",
			password: "wrong",
			mockStorage: &storage.MockUserStorage{
				GetByLoginFunc: func(ctx context.Context, login string) (*models.User, error) {
					return existing, nil
				},
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewUserService(tt.mockStorage, secret, time.Hour)
			user, token, err := service.Login(ctx, tt.login, tt.password)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}

			claims, err := auth.ValidateToken(token, secret)
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}
			if claims.UserID != user.ID || claims.Role != models.RoleCoordinator {
				t.Errorf("claims = %+v", claims)
			}
		})
	}
}

func TestUserServiceImpl_ResolveClient(t *testing.T) {
	ctx := context.Background()
	coordinator := &models.User{ID: uuid.New(), Name: "Coordinator", Role: models.RoleCoordinator}
	client := &models.User{ID: uuid.New(), Name: "Client", Role: models.RoleClient}
	missing := uuid.New()

	users := &storage.MockUserStorage{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			switch id {
			case coordinator.ID:
				return coordinator, nil
			case client.ID:
				return client, nil
			}
			return nil, storage.ErrUserNotFound
		},
	}
	service := NewUserService(users, "secret", time.Hour)

	tests := []struct {
		name      string
		acting    uuid.UUID
		requested *uuid.UUID
		wantID    uuid.UUID
		wantErr   error
	}{
		{"acting user is the client", client.ID, nil, client.ID, nil},
		{"explicit client", coordinator.ID, &client.ID, client.ID, nil},
		{"unknown explicit client", coordinator.ID, &missing, uuid.Nil, ErrClientNotFound},
		{"no acting user", uuid.Nil, nil, uuid.Nil, ErrUnauthenticated},
		{"no acting user with explicit client", uuid.Nil, &client.ID, uuid.Nil, ErrUnauthenticated},
		{"acting user deleted", missing, nil, uuid.Nil, ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ResolveClient(ctx, tt.acting, tt.requested)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolveClient() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.ID != tt.wantID {
				t.Errorf("ResolveClient() = %v, want %v", got.ID, tt.wantID)
			}
		})
	}

	t.Run("storage failure", func(t *testing.T) {
		failing := NewUserService(&storage.MockUserStorage{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
				return nil, errors.New("db error")
			},
		}, "secret", time.Hour)

		_, err := failing.ResolveClient(ctx, client.ID, nil)
		if err == nil || errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("expected wrapped storage error, got %v", err)
		}
	})
}
