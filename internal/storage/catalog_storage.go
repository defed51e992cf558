package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ErrInvalidCatalogTable возвращается для имени таблицы, не похожего на идентификатор.
var ErrInvalidCatalogTable = errors.New("invalid catalog table name")

// DefaultCatalogTables - имена таблиц каталога в порядке приоритета.
var DefaultCatalogTables = []string{"menu_items", "products", "items"}

var tableNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

// SQLCatalogStorage читает эталонные цены из одной таблицы с колонками id и price.
type SQLCatalogStorage struct {
	db    *sql.DB
	table string
}

// NewSQLCatalogStorage создаёт источник цен для таблицы table.
// Имя приводится к нижнему регистру, как PostgreSQL делает с идентификатором без кавычек.
func NewSQLCatalogStorage(db *sql.DB, table string) (*SQLCatalogStorage, error) {
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCatalogTable, table)
	}
	return &SQLCatalogStorage{db: db, table: strings.ToLower(table)}, nil
}

// NewSQLCatalogStorages создаёт источники для списка таблиц, сохраняя порядок.
func NewSQLCatalogStorages(db *sql.DB, tables []string) ([]*SQLCatalogStorage, error) {
	list := make([]*SQLCatalogStorage, 0, len(tables))
	for _, table := range tables {
		s, err := NewSQLCatalogStorage(db, strings.TrimSpace(table))
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, nil
}

// Name возвращает имя таблицы.
func (s *SQLCatalogStorage) Name() string {
	return s.table
}

// Available проверяет, существует ли таблица в текущей схеме.
func (s *SQLCatalogStorage) Available(ctx context.Context) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT to_regclass($1) IS NOT NULL`, s.table).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to probe table %s: %w", s.table, err)
	}
	return exists, nil
}

// PricesByIDs одним запросом читает цены для переданных id.
// Ненайденные id в результат не попадают.
func (s *SQLCatalogStorage) PricesByIDs(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	rows, err := s.db.QueryContext(ctx, s.pricesQuery(len(ids)), stringArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    string
			price decimal.Decimal
		)
		if err := rows.Scan(&id, &price); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		prices[id] = price
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return prices, nil
}

func (s *SQLCatalogStorage) pricesQuery(n int) string {
	placeholders := make([]string, n)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(
		"SELECT id::text, price FROM %s WHERE id::text IN (%s)",
		pgx.Identifier{s.table}.Sanitize(),
		strings.Join(placeholders, ", "),
	)
}

func stringArgs(ids []string) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
