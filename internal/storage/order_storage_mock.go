package storage

import (
	"context"

	"github.com/agamariel/catering/internal/models"
	"github.com/google/uuid"
)

// MockOrderStorage - мок хранилища заказов для тестов других пакетов.
type MockOrderStorage struct {
	CreateFunc        func(ctx context.Context, order *models.Order) error
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByClientIDFunc func(ctx context.Context, clientID uuid.UUID) ([]*models.Order, error)
}

func (m *MockOrderStorage) Create(ctx context.Context, order *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	return nil
}

func (m *MockOrderStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrOrderNotFound
}

func (m *MockOrderStorage) GetByClientID(ctx context.Context, clientID uuid.UUID) ([]*models.Order, error) {
	if m.GetByClientIDFunc != nil {
		return m.GetByClientIDFunc(ctx, clientID)
	}
	return []*models.Order{}, nil
}
