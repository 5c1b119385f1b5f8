package handler

import (
	"context"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ivanpodgorny/campusdelivery/internal/entity"
	inerr "github.com/ivanpodgorny/campusdelivery/internal/errors"
	"github.com/ivanpodgorny/campusdelivery/internal/validator"
	"go.uber.org/zap"
	"net/http"
)

type Payment struct {
	processor PaymentProcessor
	validator Validator
	logger    *zap.SugaredLogger
}

type PaymentProcessor interface {
	Initialize(ctx context.Context, orderID uuid.UUID, email string) (entity.PaymentInit, error)
	Verify(ctx context.Context, reference string) (entity.PaymentResult, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

const SignatureHeader = "x-paystack-signature"

func NewPayment(p PaymentProcessor, v Validator, l *zap.SugaredLogger) *Payment {
	return &Payment{
		processor: p,
		validator: v,
		logger:    l,
	}
}

// Initialize создает платеж по заказу и возвращает ссылку на страницу оплаты.
// Возвращает ответ с кодом 409, если заказ уже оплачен, 502 или 504, если
// платежный провайдер вернул ошибку или не ответил.
func (h *Payment) Initialize(w http.ResponseWriter, r *http.Request) {
	req := InitializeRequest{}
	if err := readJSONBody(w, r, &req); err != nil {
		validationFailed(w, map[string]string{"body": "Invalid JSON body"})

		return
	}

	if err := h.validator.Struct(r.Context(), &req); err != nil {
		validationFailed(w, validator.Messages(err))

		return
	}

	id, err := uuid.Parse(req.OrderID)
	if err != nil {
		validationFailed(w, map[string]string{"orderId": "Order id must be a valid UUID"})

		return
	}

	init, err := h.processor.Initialize(r.Context(), id, req.Email)
	if err != nil {
		h.paymentError(w, err, "Failed to initialize payment")

		return
	}

	success(w, response{Message: "Payment initialized successfully", Data: init}, http.StatusOK)
}

// Verify проверяет результат оплаты по ссылке. Возвращает ответ с кодом 200, если
// оплата прошла, 400 с данными платежа, если не прошла, и 202, если провайдер еще
// не завершил транзакцию.
func (h *Payment) Verify(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		badRequest(w, "Payment reference is required")

		return
	}

	result, err := h.processor.Verify(r.Context(), reference)
	if err != nil {
		h.paymentError(w, err, "Failed to verify payment")

		return
	}

	switch result.Status {
	case entity.PaymentStatusCompleted:
		success(w, response{Message: "Payment verified successfully", Data: result}, http.StatusOK)
	case entity.PaymentStatusFailed:
		responseAsJSON(w, response{Message: "Payment verification failed", Data: result}, http.StatusBadRequest)
	default:
		success(w, response{Message: "Payment is still being processed", Data: result}, http.StatusAccepted)
	}
}

// Webhook принимает уведомления платежного провайдера. Уведомление с неверной
// подписью или некорректным телом отклоняется с кодом 400. Ошибка хранилища
// возвращается с кодом 500, чтобы провайдер повторил отправку.
func (h *Payment) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		badRequest(w, "Invalid webhook payload")

		return
	}

	err = h.processor.HandleWebhook(r.Context(), body, r.Header.Get(SignatureHeader))
	var validationErr *inerr.ValidationError
	switch {
	case errors.Is(err, inerr.ErrInvalidSignature):
		h.logger.Warnw("webhook signature rejected", "remote", r.RemoteAddr)
		badRequest(w, "Invalid signature")
	case errors.As(err, &validationErr):
		validationFailed(w, validationErr.Fields)
	case err != nil:
		h.logger.Errorw("webhook processing failed", "error", err)
		serverError(w, "Failed to process webhook")
	default:
		success(w, response{Message: "Webhook received", Received: true}, http.StatusOK)
	}
}

func (h *Payment) paymentError(w http.ResponseWriter, err error, message string) {
	var providerErr *inerr.ProviderError
	switch {
	case errors.Is(err, inerr.ErrOrderNotFound):
		notFound(w, "Order not found")
	case errors.Is(err, inerr.ErrPaymentNotPending):
		responseAsJSON(w, response{Message: "Order payment is already settled"}, http.StatusConflict)
	case errors.As(err, &providerErr) && providerErr.Timeout:
		responseAsJSON(w, response{Message: "Payment provider timed out, please retry"}, http.StatusGatewayTimeout)
	case errors.As(err, &providerErr) &&
		providerErr.StatusCode >= http.StatusBadRequest &&
		providerErr.StatusCode < http.StatusInternalServerError:
		badRequest(w, providerErr.Message)
	case errors.As(err, &providerErr):
		h.logger.Errorw(message, "error", err)
		responseAsJSON(w, response{Message: "Payment could not be completed, please retry"}, http.StatusBadGateway)
	default:
		h.logger.Errorw(message, "error", err)
		serverError(w, message)
	}
}
