package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agamariel/catering/internal/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestJWTMiddleware(t *testing.T) {
	secret := "test-secret"
	user := &models.User{
		ID:    uuid.New(),
		Login: "coordinator@bakery.test",
		Role:  models.RoleCoordinator,
	}

	validToken, _ := GenerateToken(user, secret, time.Hour)
	expiredToken, _ := GenerateToken(user, secret, -time.Hour)

	tests := []struct {
		name           string
		header         string
		cookie         string
		expectedStatus int
	}{
		{"bearer header", "Bearer " + validToken, "", http.StatusOK},
		{"lowercase bearer", "bearer " + validToken, "", http.StatusOK},
		{"cookie", "", validToken, http.StatusOK},
		{"missing token", "", "", http.StatusUnauthorized},
		{"expired token", "Bearer " + expiredToken, "", http.StatusUnauthorized},
		{"no bearer prefix", validToken, "", http.StatusUnauthorized},
		{"garbage token", "Bearer invalid.token.here", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			h := JWTMiddleware(secret)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			err := h(c)

			if tt.expectedStatus != http.StatusOK {
				he, ok := err.(*echo.HTTPError)
				if !ok {
					t.Fatalf("expected *echo.HTTPError, got %v", err)
				}
				if he.Code != tt.expectedStatus {
					t.Errorf("status = %d, want %d", he.Code, tt.expectedStatus)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			gotID, err := GetUserIDFromContext(c)
			if err != nil || gotID != user.ID {
				t.Errorf("GetUserIDFromContext() = %v, %v; want %v", gotID, err, user.ID)
			}
			if role, _ := c.Get(string(UserRoleKey)).(models.UserRole); role != models.RoleCoordinator {
				t.Errorf("role in context = %q, want coordinator", role)
			}
		})
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	e := echo.New()
	userID := uuid.New()

	tests := []struct {
		name    string
		value   interface{}
		wantErr bool
	}{
		{"uuid in context", userID, false},
		{"nothing in context", nil, true},
		{"wrong type", "not-a-uuid", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			if tt.value != nil {
				c.Set(string(UserIDKey), tt.value)
			}

			got, err := GetUserIDFromContext(c)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetUserIDFromContext() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != userID {
				t.Errorf("GetUserIDFromContext() = %v, want %v", got, userID)
			}
		})
	}
}
