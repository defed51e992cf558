package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/agamariel/catering/internal/models"
	"github.com/agamariel/catering/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService определяет интерфейс работы с заказами.
type OrderService interface {
	QuoteOrder(ctx context.Context, input models.OrderInput) (*models.OrderTotals, error)
	SubmitOrder(ctx context.Context, client *models.User, coordinatorID *uuid.UUID, input models.OrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, viewer *models.User, id uuid.UUID) (*models.Order, error)
	GetClientOrders(ctx context.Context, clientID uuid.UUID) ([]*models.Order, error)
}

// OrderServiceImpl реализует OrderService.
type OrderServiceImpl struct {
	orderStorage OrderStorage
	calculator   *OrderCalculator
	logger       *zap.SugaredLogger
}

// NewOrderService создаёт новый сервис заказов.
func NewOrderService(orderStorage OrderStorage, calculator *OrderCalculator, logger *zap.SugaredLogger) *OrderServiceImpl {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &OrderServiceImpl{
		orderStorage: orderStorage,
		calculator:   calculator,
		logger:       logger,
	}
}

// QuoteOrder считает суммы заказа без сохранения.
func (s *OrderServiceImpl) QuoteOrder(ctx context.Context, input models.OrderInput) (*models.OrderTotals, error) {
	totals, err := s.calculator.CalculateOrderTotals(ctx, input.MenuItems, input.DiscountFixed, input.DiscountPercent, input.DeliveryCost)
	if err != nil {
		return nil, fmt.Errorf("calculate totals: %w", err)
	}
	return totals, nil
}

// SubmitOrder собирает заказ и сохраняет его.
func (s *OrderServiceImpl) SubmitOrder(ctx context.Context, client *models.User, coordinatorID *uuid.UUID, input models.OrderInput) (*models.Order, error) {
	order, err := s.PrepareOrderData(ctx, input, client, coordinatorID)
	if err != nil {
		return nil, err
	}

	if err := s.orderStorage.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.Infow("order submitted",
		"order_id", order.ID,
		"client_id", order.ClientID,
		"items", len(order.MenuItems),
		"final_amount", order.FinalAmount.String(),
	)

	return order, nil
}

// PrepareOrderData собирает запись заказа из входных данных, клиента и сумм.
// Ничего не сохраняет; ошибка возможна только при сбое каталога.
func (s *OrderServiceImpl) PrepareOrderData(ctx context.Context, input models.OrderInput, client *models.User, coordinatorID *uuid.UUID) (*models.Order, error) {
	totals, err := s.calculator.CalculateOrderTotals(ctx, input.MenuItems, input.DiscountFixed, input.DiscountPercent, input.DeliveryCost)
	if err != nil {
		return nil, fmt.Errorf("calculate totals: %w", err)
	}

	order := &models.Order{
		ClientID:      client.ID,
		CompanyName:   client.DisplayCompanyName(),
		ClientType:    client.ClientType(),
		CoordinatorID: coordinatorID,

		MenuItems: totals.ResolvedItems,
		Comment:   input.Comment,
		Status:    models.OrderStatusSubmitted,

		TotalAmount:     totals.Subtotal,
		DiscountFixed:   input.DiscountFixed,
		DiscountPercent: input.DiscountPercent,
		DiscountAmount:  totals.DiscountAmount,
		ItemsTotal:      totals.ItemsTotal,
		DeliveryCost:    totals.DeliveryCost,
		FinalAmount:     totals.FinalAmount,

		DeliveryDate:    input.DeliveryDate,
		DeliveryTime:    combineDeliveryTime(input.DeliveryDate, input.DeliveryTime),
		DeliveryType:    input.DeliveryType,
		DeliveryAddress: input.DeliveryAddress,

		RecurringSchedule:   input.RecurringSchedule,
		ApplicationID:       input.ApplicationID,
		EquipmentRequired:   input.EquipmentRequired,
		StaffAssigned:       input.StaffAssigned,
		SpecialInstructions: input.SpecialInstructions,
	}
	if order.DeliveryType == "" {
		order.DeliveryType = models.DeliveryTypeDelivery
	}

	return order, nil
}

// GetOrder возвращает заказ, если пользователь имеет к нему доступ.
// Чужой заказ неотличим от несуществующего.
func (s *OrderServiceImpl) GetOrder(ctx context.Context, viewer *models.User, id uuid.UUID) (*models.Order, error) {
	order, err := s.orderStorage.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, storage.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if !canView(viewer, order) {
		return nil, storage.ErrOrderNotFound
	}

	return order, nil
}

// GetClientOrders возвращает заказы клиента.
func (s *OrderServiceImpl) GetClientOrders(ctx context.Context, clientID uuid.UUID) ([]*models.Order, error) {
	orders, err := s.orderStorage.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("get client orders: %w", err)
	}

	if len(orders) == 0 {
		return []*models.Order{}, nil
	}

	return orders, nil
}

// combineDeliveryTime склеивает дату и время доставки в "{date} {time}",
// если заданы оба значения.
func combineDeliveryTime(date, t *string) *string {
	if date == nil || t == nil {
		return nil
	}
	v := *date + " " + *t
	return &v
}

func canView(viewer *models.User, order *models.Order) bool {
	if viewer == nil {
		return false
	}
	if viewer.IsCoordinator() || order.ClientID == viewer.ID {
		return true
	}
	return order.CoordinatorID != nil && *order.CoordinatorID == viewer.ID
}
