package handlers

import (
	"errors"
	"net/http"

	"github.com/agamariel/catering/internal/auth"
	"github.com/agamariel/catering/internal/models"
	"github.com/agamariel/catering/internal/services"
	"github.com/agamariel/catering/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// OrderHandler обрабатывает запросы, связанные с заказами.
type OrderHandler struct {
	orderService services.OrderService
	userService  services.UserService
	logger       *zap.SugaredLogger
}

func NewOrderHandler(orderService services.OrderService, userService services.UserService, logger *zap.SugaredLogger) *OrderHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &OrderHandler{
		orderService: orderService,
		userService:  userService,
		logger:       logger,
	}
}

// QuoteOrder обрабатывает POST /api/orders/quote: расчёт сумм без сохранения.
func (h *OrderHandler) QuoteOrder(c echo.Context) error {
	if _, err := auth.GetUserIDFromContext(c); err != nil {
		return err
	}

	req, err := h.readOrderRequest(c)
	if err != nil {
		return err
	}

	totals, err := h.orderService.QuoteOrder(c.Request().Context(), req.Normalize())
	if err != nil {
		return h.internalError("failed to quote order", err)
	}

	return c.JSON(http.StatusOK, totals)
}

// CreateOrder обрабатывает POST /api/orders.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	req, err := h.readOrderRequest(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	actor, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
		}
		return h.internalError("failed to get user", err)
	}

	// Оформить заказ на другого клиента может только координатор.
	// Роль берётся из хранилища: в токене она может быть устаревшей.
	if !actor.IsCoordinator() {
		req.ClientID = nil
	}

	client, err := h.userService.ResolveClient(ctx, userID, req.ClientID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthenticated):
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
		case errors.Is(err, services.ErrClientNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "client not found")
		default:
			return h.internalError("failed to resolve client", err)
		}
	}

	order, err := h.orderService.SubmitOrder(ctx, client, &userID, req.Normalize())
	if err != nil {
		return h.internalError("failed to submit order", err)
	}

	return c.JSON(http.StatusCreated, order)
}

// GetOrders обрабатывает GET /api/orders.
func (h *OrderHandler) GetOrders(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	orders, err := h.orderService.GetClientOrders(c.Request().Context(), userID)
	if err != nil {
		return h.internalError("failed to list orders", err)
	}

	if len(orders) == 0 {
		return c.NoContent(http.StatusNoContent)
	}

	return c.JSON(http.StatusOK, orders)
}

// GetOrder обрабатывает GET /api/orders/:id.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	ctx := c.Request().Context()
	viewer, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
		}
		return h.internalError("failed to get user", err)
	}

	order, err := h.orderService.GetOrder(ctx, viewer, orderID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return h.internalError("failed to get order", err)
	}

	return c.JSON(http.StatusOK, order)
}

// readOrderRequest декодирует и проверяет тело заказа.
func (h *OrderHandler) readOrderRequest(c echo.Context) (*models.OrderRequest, error) {
	var req models.OrderRequest
	if err := decodeJSON(c, &req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusUnprocessableEntity, validationMessage(err))
	}

	return &req, nil
}

func (h *OrderHandler) internalError(msg string, err error) error {
	h.logger.Errorw(msg, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
