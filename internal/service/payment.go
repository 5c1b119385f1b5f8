package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/ivanpodgorny/campusdelivery/internal/entity"
	inerr "github.com/ivanpodgorny/campusdelivery/internal/errors"
	"go.uber.org/zap"
	"time"
)

// Payment связывает заказы с транзакциями платежного провайдера. Оплата заказа
// переводится в окончательный статус только из статуса entity.PaymentStatusPending,
// поэтому проверка оплаты клиентом и уведомление провайдера могут выполняться
// в любом порядке и повторно.
type Payment struct {
	repository  PaymentRepository
	provider    PaymentProvider
	verifier    SignatureVerifier
	callbackURL string
	now         func() time.Time
	logger      *zap.SugaredLogger
}

type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (entity.Order, error)
	FindByReference(ctx context.Context, reference string) (entity.Order, error)
	SetPaymentReference(ctx context.Context, id uuid.UUID, reference string) (entity.Order, error)
	ResolvePayment(
		ctx context.Context,
		reference string,
		status entity.PaymentStatus,
		paidAt *time.Time,
	) (entity.Order, bool, error)
}

type PaymentProvider interface {
	Initialize(ctx context.Context, charge entity.ChargeRequest) (entity.PaymentInit, error)
	Verify(ctx context.Context, reference string) (entity.ProviderTransaction, error)
}

type SignatureVerifier interface {
	Verify(body []byte, signature string) error
}

const referencePrefix = "INTRA-HD"

func NewPayment(
	r PaymentRepository,
	p PaymentProvider,
	v SignatureVerifier,
	callbackURL string,
	l *zap.SugaredLogger,
) *Payment {
	return &Payment{
		repository:  r,
		provider:    p,
		verifier:    v,
		callbackURL: callbackURL,
		now:         time.Now,
		logger:      l,
	}
}

// Initialize создает транзакцию у провайдера и сохраняет ссылку на нее в заказе.
// Если провайдер вернул ошибку, заказ не изменяется и инициализацию можно повторить.
// Если оплата заказа уже завершена, возвращает ошибку errors.ErrPaymentNotPending.
func (s *Payment) Initialize(ctx context.Context, orderID uuid.UUID, email string) (entity.PaymentInit, error) {
	o, err := s.repository.FindByID(ctx, orderID)
	if err != nil {
		return entity.PaymentInit{}, err
	}

	if o.PaymentStatus != entity.PaymentStatusPending {
		return entity.PaymentInit{}, inerr.ErrPaymentNotPending
	}

	reference := NewReference(o.ID, s.now())
	init, err := s.provider.Initialize(ctx, entity.ChargeRequest{
		Amount:        o.TotalAmount.MinorUnits(),
		Email:         email,
		Reference:     reference,
		CallbackURL:   s.callbackURL,
		OrderID:       o.ID,
		CustomerName:  o.Name,
		CustomerPhone: o.PhoneNumber,
	})
	if err != nil {
		s.logger.Warnw("payment initialization failed", "order", o.ID, "error", err)

		return entity.PaymentInit{}, err
	}

	if init.Reference == "" {
		init.Reference = reference
	}

	if _, err := s.repository.SetPaymentReference(ctx, o.ID, init.Reference); err != nil {
		return entity.PaymentInit{}, err
	}

	s.logger.Infow("payment initialized", "order", o.ID, "reference", init.Reference)

	return init, nil
}

// Verify запрашивает у провайдера результат транзакции и переводит оплату заказа
// в окончательный статус. Если статус уже окончательный, провайдер не запрашивается
// и возвращается сохраненный результат. Если провайдер еще не завершил транзакцию,
// возвращается результат со статусом entity.PaymentStatusPending.
func (s *Payment) Verify(ctx context.Context, reference string) (entity.PaymentResult, error) {
	o, err := s.repository.FindByReference(ctx, reference)
	if err != nil {
		return entity.PaymentResult{}, err
	}

	if o.PaymentStatus.Terminal() {
		return entity.NewPaymentResult(o), nil
	}

	tx, err := s.provider.Verify(ctx, reference)
	if err != nil {
		s.logger.Warnw("payment verification failed", "reference", reference, "error", err)

		return entity.PaymentResult{}, err
	}

	if !tx.Status.Terminal() {
		return entity.NewPaymentResult(o), nil
	}

	o, err = s.settle(ctx, o, tx.Status, tx.Amount)
	if err != nil {
		return entity.PaymentResult{}, err
	}

	return entity.NewPaymentResult(o), nil
}

// HandleWebhook проверяет подпись уведомления провайдера и при успешной оплате
// переводит заказ в статус entity.PaymentStatusCompleted. Уведомления о других
// событиях и о неизвестных ссылках принимаются без изменений.
func (s *Payment) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if err := s.verifier.Verify(body, signature); err != nil {
		return err
	}

	var event entity.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return &inerr.ValidationError{Fields: map[string]string{"body": "Malformed event payload"}}
	}

	if event.Event != entity.EventChargeSuccess {
		s.logger.Debugw("webhook event ignored", "event", event.Event, "reference", event.Data.Reference)

		return nil
	}

	if event.Data.Reference == "" {
		return &inerr.ValidationError{Fields: map[string]string{"reference": "Reference is required"}}
	}

	o, err := s.repository.FindByReference(ctx, event.Data.Reference)
	if err == nil {
		_, err = s.settle(ctx, o, entity.PaymentStatusCompleted, event.Data.Amount)
	}
	if errors.Is(err, inerr.ErrOrderNotFound) {
		s.logger.Warnw("webhook for unknown reference", "reference", event.Data.Reference)

		return nil
	}

	return err
}

// settle переводит оплату заказа в окончательный статус. Успешная оплата на сумму,
// отличную от итоговой суммы заказа, считается неуспешной.
func (s *Payment) settle(
	ctx context.Context,
	o entity.Order,
	status entity.PaymentStatus,
	amount int64,
) (entity.Order, error) {
	if status == entity.PaymentStatusCompleted && amount != o.TotalAmount.MinorUnits() {
		s.logger.Errorw(
			"payment amount mismatch",
			"order", o.ID,
			"reference", o.PaymentReference,
			"expected", o.TotalAmount.MinorUnits(),
			"paid", amount,
		)
		status = entity.PaymentStatusFailed
	}

	return s.resolve(ctx, o.PaymentReference, status)
}

func (s *Payment) resolve(ctx context.Context, reference string, status entity.PaymentStatus) (entity.Order, error) {
	var paidAt *time.Time
	if status == entity.PaymentStatusCompleted {
		now := s.now().UTC()
		paidAt = &now
	}

	o, applied, err := s.repository.ResolvePayment(ctx, reference, status, paidAt)
	if err != nil {
		return entity.Order{}, err
	}

	switch {
	case applied:
		s.logger.Infow("payment resolved", "order", o.ID, "reference", reference, "status", o.PaymentStatus)
	case status == entity.PaymentStatusCompleted && o.PaymentStatus == entity.PaymentStatusFailed:
		s.logger.Errorw(
			"successful payment for failed order needs manual reconciliation",
			"order", o.ID,
			"reference", reference,
		)
	default:
		s.logger.Debugw(
			"payment already resolved",
			"order", o.ID,
			"reference", reference,
			"status", o.PaymentStatus,
			"rejected", status,
		)
	}

	return o, nil
}

// NewReference формирует ссылку на платеж из времени создания в миллисекундах
// и префикса идентификатора заказа.
func NewReference(orderID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", referencePrefix, now.UnixMilli(), orderID.String()[:8])
}
