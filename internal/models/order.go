package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/agamariel/catering/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus описывает статус заказа.
type OrderStatus string

// OrderStatusSubmitted - статус только что оформленного заказа.
// Дальнейшие переходы выполняет рабочий процесс кухни и координаторов.
const OrderStatusSubmitted OrderStatus = "submitted"

const (
	DeliveryTypeDelivery = "delivery"
	DeliveryTypePickup   = "pickup"
)

// Order - собранная запись заказа, готовая к сохранению.
type Order struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	ClientID      uuid.UUID  `db:"client_id" json:"client_id"`
	CompanyName   string     `db:"company_name" json:"company_name"`
	ClientType    string     `db:"client_type" json:"client_type"`
	CoordinatorID *uuid.UUID `db:"coordinator_id" json:"coordinator_id"`

	MenuItems []ResolvedLineItem `db:"menu_items" json:"menu_items"`
	Comment   *string            `db:"comment" json:"comment"`
	Status    OrderStatus        `db:"status" json:"status"`

	// TotalAmount хранит сумму позиций до скидки, итог к оплате - FinalAmount.
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	DiscountFixed   decimal.Decimal `db:"discount_fixed" json:"discount_fixed"`
	DiscountPercent decimal.Decimal `db:"discount_percent" json:"discount_percent"`
	DiscountAmount  decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	ItemsTotal      decimal.Decimal `db:"items_total" json:"items_total"`
	DeliveryCost    decimal.Decimal `db:"delivery_cost" json:"delivery_cost"`
	FinalAmount     decimal.Decimal `db:"final_amount" json:"final_amount"`

	DeliveryDate    *string `db:"delivery_date" json:"delivery_date"`
	DeliveryTime    *string `db:"delivery_time" json:"delivery_time"`
	DeliveryType    string  `db:"delivery_type" json:"delivery_type"`
	DeliveryAddress *string `db:"delivery_address" json:"delivery_address"`

	RecurringSchedule   json.RawMessage `db:"recurring_schedule" json:"recurring_schedule"`
	ApplicationID       *uuid.UUID      `db:"application_id" json:"application_id"`
	EquipmentRequired   int             `db:"equipment_required" json:"equipment_required"`
	StaffAssigned       int             `db:"staff_assigned" json:"staff_assigned"`
	SpecialInstructions *string         `db:"special_instructions" json:"special_instructions"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// OrderRequest - входные данные заказа после декодирования JSON.
// Все поля необязательны, значения по умолчанию применяет Normalize.
type OrderRequest struct {
	ClientID            *uuid.UUID       `json:"client_id"`
	MenuItems           []LineItem       `json:"menu_items" validate:"max=500,dive"`
	DiscountFixed       *decimal.Decimal `json:"discount_fixed"`
	DiscountPercent     *decimal.Decimal `json:"discount_percent"`
	DeliveryCost        *decimal.Decimal `json:"delivery_cost"`
	Comment             *string          `json:"comment" validate:"omitempty,max=2000"`
	DeliveryDate        *string          `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	DeliveryTime        *string          `json:"delivery_time" validate:"omitempty,max=8"`
	DeliveryType        *string          `json:"delivery_type" validate:"omitempty,oneof=delivery pickup"`
	DeliveryAddress     *string          `json:"delivery_address" validate:"omitempty,max=500"`
	RecurringSchedule   json.RawMessage  `json:"recurring_schedule"`
	ApplicationID       *uuid.UUID       `json:"application_id"`
	EquipmentRequired   *int             `json:"equipment_required"`
	StaffAssigned       *int             `json:"staff_assigned"`
	SpecialInstructions *string          `json:"special_instructions" validate:"omitempty,max=2000"`
}

// OrderInput - нормализованные входные данные заказа.
type OrderInput struct {
	MenuItems           []LineItem
	DiscountFixed       decimal.Decimal
	DiscountPercent     decimal.Decimal
	DeliveryCost        decimal.Decimal
	Comment             *string
	DeliveryDate        *string
	DeliveryTime        *string
	DeliveryType        string
	DeliveryAddress     *string
	RecurringSchedule   json.RawMessage
	ApplicationID       *uuid.UUID
	EquipmentRequired   int
	StaffAssigned       int
	SpecialInstructions *string
}

// Normalize применяет значения по умолчанию и ограничения к входным данным.
// Отрицательные скидка и доставка становятся нулём, процент - в [0, 100].
func (r *OrderRequest) Normalize() OrderInput {
	in := OrderInput{
		MenuItems:           r.MenuItems,
		DiscountFixed:       utils.NonNegative(utils.DecimalOrZero(r.DiscountFixed)),
		DiscountPercent:     utils.ClampPercent(utils.DecimalOrZero(r.DiscountPercent)),
		DeliveryCost:        utils.NonNegative(utils.DecimalOrZero(r.DeliveryCost)),
		Comment:             optionalString(r.Comment),
		DeliveryDate:        optionalString(r.DeliveryDate),
		DeliveryTime:        optionalString(r.DeliveryTime),
		DeliveryType:        DeliveryTypeDelivery,
		DeliveryAddress:     optionalString(r.DeliveryAddress),
		ApplicationID:       r.ApplicationID,
		SpecialInstructions: optionalString(r.SpecialInstructions),
	}

	if in.MenuItems == nil {
		in.MenuItems = []LineItem{}
	}
	if t := optionalString(r.DeliveryType); t != nil {
		in.DeliveryType = *t
	}
	if len(r.RecurringSchedule) > 0 && string(r.RecurringSchedule) != "null" {
		in.RecurringSchedule = r.RecurringSchedule
	}
	if r.EquipmentRequired != nil {
		in.EquipmentRequired = *r.EquipmentRequired
	}
	if r.StaffAssigned != nil {
		in.StaffAssigned = *r.StaffAssigned
	}

	return in
}

// optionalString считает пустую строку отсутствующим значением.
func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
