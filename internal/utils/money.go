package utils

import (
	"github.com/shopspring/decimal"
)

// MoneyPlaces - количество знаков после запятой для денежных сумм.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney округляет сумму до копеек (половина - от нуля).
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// NonNegative заменяет отрицательное значение нулём.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ClampPercent ограничивает процент диапазоном [0, 100].
func ClampPercent(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(hundred) {
		return hundred
	}
	return d
}

// Percent возвращает percent% от base без округления.
func Percent(base, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(percent).Div(hundred)
}

// NormalizeQuantity приводит количество к целому >= 1.
// Отсутствующее, нулевое и отрицательное количество считается равным 1.
func NormalizeQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// DecimalOrZero разыменовывает необязательную сумму.
func DecimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
