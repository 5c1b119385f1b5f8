package entity

import (
	"fmt"
	"github.com/google/uuid"
	"strings"
	"time"
)

type Order struct {
	ID               uuid.UUID     `json:"id"`
	Name             string        `json:"name"`
	PhoneNumber      string        `json:"phoneNumber"`
	ResidenceType    ResidenceType `json:"residenceType"`
	Block            string        `json:"block,omitempty"`
	Room             string        `json:"room,omitempty"`
	Hall             string        `json:"hall,omitempty"`
	Hostel           string        `json:"hostel,omitempty"`
	OrderDescription string        `json:"orderDescription"`
	OrderAmount      Money         `json:"orderAmount"`
	DeliveryFee      Money         `json:"deliveryFee"`
	TotalAmount      Money         `json:"totalAmount"`
	PaymentStatus    PaymentStatus `json:"paymentStatus"`
	PaymentReference string        `json:"paymentReference,omitempty"`
	PaymentDate      *time.Time    `json:"paymentDate,omitempty"`
	Status           OrderStatus   `json:"status"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// OrderDraft содержит проверенные данные нового заказа.
type OrderDraft struct {
	Name             string
	PhoneNumber      string
	OrderDescription string
	OrderAmount      Money
	Residence        Residence
}

const internationalPhonePrefix = "+233"

// LocalPhone приводит номер телефона в международном формате к местному:
// +233244000000 хранится как 0244000000.
func LocalPhone(phone string) string {
	if rest, ok := strings.CutPrefix(phone, internationalPhonePrefix); ok {
		return "0" + rest
	}

	return phone
}

type OrderStatus string

const (
	OrderStatusReceived   OrderStatus = "received"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusInDelivery OrderStatus = "in-delivery"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid сообщает, входит ли статус в список допустимых. Порядок смены статусов
// не ограничивается: оператор может установить любой статус из любого.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusReceived,
		OrderStatusProcessing,
		OrderStatusInDelivery,
		OrderStatusDelivered,
		OrderStatusCancelled:
		return true
	}

	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Terminal сообщает, что статус оплаты окончательный и больше не меняется.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// NewOrder создает заказ из проверенных данных: рассчитывает стоимость доставки
// и итоговую сумму, выставляет начальные статусы заказа и оплаты.
func NewOrder(id uuid.UUID, d OrderDraft) Order {
	o := Order{
		ID:               id,
		Name:             d.Name,
		PhoneNumber:      LocalPhone(d.PhoneNumber),
		OrderDescription: d.OrderDescription,
		OrderAmount:      d.OrderAmount.Round(),
		DeliveryFee:      DeliveryFee,
		PaymentStatus:    PaymentStatusPending,
		Status:           OrderStatusReceived,
	}
	o.TotalAmount = o.OrderAmount.Add(o.DeliveryFee)
	d.Residence.fill(&o)

	return o
}

// Residence восстанавливает адрес доставки по сохраненным полям заказа.
func (o Order) Residence() (Residence, error) {
	switch o.ResidenceType {
	case ResidenceLegonHall:
		return LegonHall{Block: o.Block, Room: o.Room}, nil
	case ResidenceTraditionalHall:
		return TraditionalHall{Hall: o.Hall}, nil
	case ResidenceHostel:
		return Hostel{Hostel: o.Hostel, Block: o.Block}, nil
	}

	return nil, fmt.Errorf("unknown residence type %q", o.ResidenceType)
}

// Address возвращает адрес доставки в читаемом виде.
func (o Order) Address() string {
	r, err := o.Residence()
	if err != nil {
		return "Unknown location"
	}

	return r.Address()
}
