package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ItemID - идентификатор позиции меню. В JSON принимается строкой или числом.
type ItemID string

// UnmarshalJSON принимает "12", 12 и null.
// Число приводится к каноничной записи: 12.0 и 1.2e1 дают "12".
func (id *ItemID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("invalid item id: %w", err)
		}
		*id = ItemID(strings.TrimSpace(v))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid item id: %w", err)
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return fmt.Errorf("invalid item id: %w", err)
	}
	*id = ItemID(d.String())
	return nil
}

// LineItem - позиция заказа в том виде, в котором её прислал клиент.
// Quantity == 0 означает, что количество не передано.
type LineItem struct {
	ID       ItemID          `json:"id"`
	Name     string          `json:"name" validate:"max=255"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// UnmarshalJSON допускает количество и цену как числом, так и строкой.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       ItemID           `json:"id"`
		Name     string           `json:"name"`
		Quantity json.RawMessage  `json:"quantity"`
		Price    *decimal.Decimal `json:"price"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	qty, err := parseQuantity(raw.Quantity)
	if err != nil {
		return err
	}

	li.ID = raw.ID
	li.Name = raw.Name
	li.Quantity = qty
	li.Price = decimal.Zero
	if raw.Price != nil {
		li.Price = *raw.Price
	}
	return nil
}

// parseQuantity отбрасывает дробную часть, как это делает приведение к целому.
// null и пустая строка равносильны отсутствию количества.
func parseQuantity(data json.RawMessage) (int, error) {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return 0, nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, fmt.Errorf("invalid quantity: %w", err)
		}
		if s = strings.TrimSpace(s); s == "" {
			return 0, nil
		}
	}

	var n json.Number
	if err := json.Unmarshal([]byte(s), &n); err != nil {
		return 0, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	if v, err := n.Int64(); err == nil {
		if v > math.MaxInt || v < math.MinInt {
			return 0, fmt.Errorf("quantity %s out of range", n)
		}
		return int(v), nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	if f < math.MinInt || f >= -math.MinInt {
		return 0, fmt.Errorf("quantity %s out of range", n)
	}
	return int(f), nil
}

// ResolvedLineItem - позиция после сверки с каталогом.
// ServerPrice задан только при совпадении id с каталогом и имеет приоритет над Price.
type ResolvedLineItem struct {
	ID          ItemID           `json:"id"`
	Name        string           `json:"name"`
	Quantity    int              `json:"quantity"`
	Price       decimal.Decimal  `json:"price"`
	ServerPrice *decimal.Decimal `json:"server_price,omitempty"`
}

// EffectivePrice возвращает цену, по которой считается позиция.
func (r ResolvedLineItem) EffectivePrice() decimal.Decimal {
	if r.ServerPrice != nil {
		return *r.ServerPrice
	}
	return r.Price
}

// OrderTotals - результат расчёта сумм заказа. Все суммы округлены до 2 знаков.
type OrderTotals struct {
	ResolvedItems  []ResolvedLineItem `json:"resolved_items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	ItemsTotal     decimal.Decimal    `json:"items_total"`
	DeliveryCost   decimal.Decimal    `json:"delivery_cost"`
	FinalAmount    decimal.Decimal    `json:"final_amount"`
}
