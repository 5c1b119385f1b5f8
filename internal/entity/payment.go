package entity

import (
	"github.com/google/uuid"
	"time"
)

// ChargeRequest данные для создания транзакции у платежного провайдера.
type ChargeRequest struct {
	Amount        int64
	Email         string
	Reference     string
	CallbackURL   string
	OrderID       uuid.UUID
	CustomerName  string
	CustomerPhone string
}

type PaymentInit struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
}

// ProviderTransaction состояние транзакции по данным платежного провайдера.
// Status равен PaymentStatusPending, пока провайдер не сообщил окончательный результат.
// Amount указывается в песевах.
type ProviderTransaction struct {
	Status PaymentStatus
	Amount int64
}

type PaymentResult struct {
	OrderID   uuid.UUID     `json:"orderId"`
	Status    PaymentStatus `json:"status"`
	Amount    Money         `json:"amount"`
	Reference string        `json:"reference"`
	PaidAt    *time.Time    `json:"paidAt,omitempty"`
}

const EventChargeSuccess = "charge.success"

type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
	} `json:"data"`
}

func NewPaymentResult(o Order) PaymentResult {
	return PaymentResult{
		OrderID:   o.ID,
		Status:    o.PaymentStatus,
		Amount:    o.TotalAmount,
		Reference: o.PaymentReference,
		PaidAt:    o.PaymentDate,
	}
}
