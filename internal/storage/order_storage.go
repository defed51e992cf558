package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/agamariel/catering/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOrderNotFound = errors.New("order not found")

const orderColumns = `
	id, client_id, company_name, client_type, coordinator_id,
	menu_items, comment, status,
	total_amount, discount_fixed, discount_percent, discount_amount, items_total, delivery_cost, final_amount,
	delivery_date, delivery_time, delivery_type, delivery_address,
	recurring_schedule, application_id, equipment_required, staff_assigned, special_instructions,
	created_at, updated_at`

// PostgresOrderStorage хранит заказы в PostgreSQL.
type PostgresOrderStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresOrderStorage создаёт новый экземпляр PostgresOrderStorage.
func NewPostgresOrderStorage(pool *pgxpool.Pool) *PostgresOrderStorage {
	return &PostgresOrderStorage{pool: pool}
}

// Create сохраняет собранный заказ и заполняет ID и временные метки.
func (s *PostgresOrderStorage) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (
			id, client_id, company_name, client_type, coordinator_id,
			menu_items, comment, status,
			total_amount, discount_fixed, discount_percent, discount_amount, items_total, delivery_cost, final_amount,
			delivery_date, delivery_time, delivery_type, delivery_address,
			recurring_schedule, application_id, equipment_required, staff_assigned, special_instructions,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	menuItems, err := json.Marshal(order.MenuItems)
	if err != nil {
		return fmt.Errorf("failed to encode menu items: %w", err)
	}

	err = s.pool.QueryRow(ctx, query,
		order.ID,
		order.ClientID,
		order.CompanyName,
		order.ClientType,
		order.CoordinatorID,
		menuItems,
		order.Comment,
		order.Status,
		order.TotalAmount,
		order.DiscountFixed,
		order.DiscountPercent,
		order.DiscountAmount,
		order.ItemsTotal,
		order.DeliveryCost,
		order.FinalAmount,
		order.DeliveryDate,
		order.DeliveryTime,
		order.DeliveryType,
		order.DeliveryAddress,
		nullableJSON(order.RecurringSchedule),
		order.ApplicationID,
		order.EquipmentRequired,
		order.StaffAssigned,
		order.SpecialInstructions,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// GetByID возвращает заказ по ID.
func (s *PostgresOrderStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(s.pool.QueryRow(ctx, query, id))
}

// GetByClientID возвращает заказы клиента, новые первыми.
func (s *PostgresOrderStorage) GetByClientID(ctx context.Context, clientID uuid.UUID) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE client_id = $1 ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query client orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return orders, nil
}

// scanOrder читает заказ из строки результата.
func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		order     models.Order
		menuItems []byte
		schedule  []byte
	)

	err := row.Scan(
		&order.ID,
		&order.ClientID,
		&order.CompanyName,
		&order.ClientType,
		&order.CoordinatorID,
		&menuItems,
		&order.Comment,
		&order.Status,
		&order.TotalAmount,
		&order.DiscountFixed,
		&order.DiscountPercent,
		&order.DiscountAmount,
		&order.ItemsTotal,
		&order.DeliveryCost,
		&order.FinalAmount,
		&order.DeliveryDate,
		&order.DeliveryTime,
		&order.DeliveryType,
		&order.DeliveryAddress,
		&schedule,
		&order.ApplicationID,
		&order.EquipmentRequired,
		&order.StaffAssigned,
		&order.SpecialInstructions,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	order.MenuItems = []models.ResolvedLineItem{}
	if len(menuItems) > 0 {
		if err := json.Unmarshal(menuItems, &order.MenuItems); err != nil {
			return nil, fmt.Errorf("failed to decode menu items: %w", err)
		}
	}
	if len(schedule) > 0 {
		order.RecurringSchedule = json.RawMessage(schedule)
	}

	return &order, nil
}

// nullableJSON превращает пустой JSON в NULL.
func nullableJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
