package services

import (
	"context"

	"github.com/agamariel/catering/internal/models"
	"github.com/agamariel/catering/internal/utils"
	"github.com/shopspring/decimal"
)

// OrderCalculator считает суммы заказа по сверенным с каталогом позициям.
type OrderCalculator struct {
	resolver *MenuResolver
}

// NewOrderCalculator создаёт калькулятор.
func NewOrderCalculator(resolver *MenuResolver) *OrderCalculator {
	return &OrderCalculator{resolver: resolver}
}

// CalculateOrderTotals считает подытог, скидку, сумму позиций и итог.
// Каждая строка округляется до суммирования; сумма позиций не бывает отрицательной.
// Ошибку возвращает только обращение к каталогу.
func (c *OrderCalculator) CalculateOrderTotals(
	ctx context.Context,
	menuItems []models.LineItem,
	discountFixed, discountPercent, deliveryCost decimal.Decimal,
) (*models.OrderTotals, error) {
	resolved, err := c.resolver.ResolveMenuItems(ctx, menuItems)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, item := range resolved {
		subtotal = subtotal.Add(LineTotal(item))
	}
	subtotal = utils.RoundMoney(subtotal)

	discountFixed = utils.NonNegative(discountFixed)
	discountPercent = utils.ClampPercent(discountPercent)
	deliveryCost = utils.RoundMoney(utils.NonNegative(deliveryCost))

	discountAmount := utils.RoundMoney(discountFixed.Add(utils.Percent(subtotal, discountPercent)))
	itemsTotal := utils.RoundMoney(utils.NonNegative(subtotal.Sub(discountAmount)))
	finalAmount := utils.RoundMoney(itemsTotal.Add(deliveryCost))

	return &models.OrderTotals{
		ResolvedItems:  resolved,
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		ItemsTotal:     itemsTotal,
		DeliveryCost:   deliveryCost,
		FinalAmount:    finalAmount,
	}, nil
}

// LineTotal возвращает round(quantity * effective_price, 2).
func LineTotal(item models.ResolvedLineItem) decimal.Decimal {
	return utils.RoundMoney(item.EffectivePrice().Mul(decimal.NewFromInt(int64(item.Quantity))))
}
