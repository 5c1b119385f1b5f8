package entity

import "github.com/shopspring/decimal"

// Money хранит денежную сумму в седи с точностью до двух знаков после запятой.
// В JSON сериализуется числом с двумя знаками после запятой, в базу данных
// передается как numeric.
type Money struct {
	decimal.Decimal
}

// DeliveryFee фиксированная стоимость доставки, добавляемая к каждому заказу.
var DeliveryFee = Money{decimal.RequireFromString("6.00")}

func NewMoney(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, err
	}

	return Money{d.Round(2)}, nil
}

func MustMoney(amount string) Money {
	m, err := NewMoney(amount)
	if err != nil {
		panic(err)
	}

	return m
}

// MoneyFromMinorUnits переводит сумму из песев в седи.
func MoneyFromMinorUnits(v int64) Money {
	return Money{decimal.New(v, -2)}
}

func (m Money) Add(o Money) Money {
	return Money{m.Decimal.Add(o.Decimal)}
}

func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

// MinorUnits возвращает сумму в песевах, как того требует платежный провайдер.
func (m Money) MinorUnits() int64 {
	return m.Decimal.Shift(2).Round(0).IntPart()
}

func (m Money) String() string {
	return m.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}
