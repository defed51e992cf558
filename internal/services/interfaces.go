package services

import (
	"context"

	"github.com/agamariel/catering/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -destination=mocks/catalog_source.go -package=mocks github.com/agamariel/catering/internal/services CatalogSource

// OrderStorage определяет интерфейс для работы с заказами.
type OrderStorage interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByClientID(ctx context.Context, clientID uuid.UUID) ([]*models.Order, error)
}

// UserStorage определяет интерфейс для работы с пользователями.
type UserStorage interface {
	Create(ctx context.Context, user *models.User) error
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CatalogSource - источник эталонных цен позиций меню.
type CatalogSource interface {
	// Name возвращает имя источника для логов.
	Name() string
	// Available сообщает, развёрнут ли каталог в текущей инсталляции.
	Available(ctx context.Context) (bool, error)
	// PricesByIDs одним запросом возвращает цены найденных позиций.
	PricesByIDs(ctx context.Context, ids []string) (map[string]decimal.Decimal, error)
}
