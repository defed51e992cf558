package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/agamariel/catering/internal/auth"
	"github.com/agamariel/catering/internal/models"
	"github.com/agamariel/catering/internal/services"
	"github.com/agamariel/catering/internal/storage"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserHandler обрабатывает HTTP-запросы для работы с пользователями.
type UserHandler struct {
	userService     services.UserService
	tokenExpiration time.Duration
	logger          *zap.SugaredLogger
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(userService services.UserService, tokenExpiration time.Duration, logger *zap.SugaredLogger) *UserHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &UserHandler{
		userService:     userService,
		tokenExpiration: tokenExpiration,
		logger:          logger,
	}
}

// Register обрабатывает POST /api/user/register.
func (h *UserHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := decodeJSON(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	user, token, err := h.userService.Register(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, storage.ErrLoginExists) {
			return echo.NewHTTPError(http.StatusConflict, "login already exists")
		}
		h.logger.Errorw("failed to register user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.setAuthToken(c, token)

	return c.JSON(http.StatusOK, userResponse(user))
}

// Login обрабатывает POST /api/user/login.
func (h *UserHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	user, token, err := h.userService.Login(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, services.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid login or password")
		}
		h.logger.Errorw("failed to login user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.setAuthToken(c, token)

	return c.JSON(http.StatusOK, userResponse(user))
}

// setAuthToken устанавливает токен в cookie и заголовок ответа.
func (h *UserHandler) setAuthToken(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.tokenExpiration.Seconds()),
	})
	c.Response().Header().Set("Authorization", "Bearer "+token)
}

func userResponse(user *models.User) map[string]interface{} {
	return map[string]interface{}{
		"user_id":      user.ID,
		"login":        user.Login,
		"name":         user.Name,
		"role":         user.Role,
		"company_name": user.DisplayCompanyName(),
	}
}
