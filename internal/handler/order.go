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

type Order struct {
	processor OrderProcessor
	validator Validator
	logger    *zap.SugaredLogger
}

type OrderProcessor interface {
	Create(ctx context.Context, d entity.OrderDraft) (entity.Order, error)
	Get(ctx context.Context, id uuid.UUID) (entity.Order, error)
	GetAll(ctx context.Context) ([]entity.Order, error)
	GetByPhone(ctx context.Context, phone string) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) (entity.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

func NewOrder(p OrderProcessor, v Validator, l *zap.SugaredLogger) *Order {
	return &Order{
		processor: p,
		validator: v,
		logger:    l,
	}
}

// Create обрабатывает форму заказа. Общие поля и поля адреса проверяются вместе,
// в ответе с кодом 400 возвращаются сообщения по всем невалидным полям.
// В случае успеха возвращает ответ с кодом 201 и созданный заказ.
func (h *Order) Create(w http.ResponseWriter, r *http.Request) {
	req := OrderRequest{}
	if err := readJSONBody(w, r, &req); err != nil {
		validationFailed(w, map[string]string{"body": "Invalid JSON body"})

		return
	}

	req.normalize()
	fields := validator.Messages(h.validator.Struct(r.Context(), &req))
	residence, ok := req.Residence()
	if ok {
		for field, msg := range validator.Messages(h.validator.Struct(r.Context(), residence)) {
			fields[field] = msg
		}
	}

	if len(fields) > 0 {
		validationFailed(w, fields)

		return
	}

	o, err := h.processor.Create(r.Context(), req.Draft(residence))
	if err != nil {
		h.logger.Errorw("order creation failed", "error", err)
		serverError(w, "Failed to create order")

		return
	}

	success(w, response{Message: "Order created successfully", Data: o}, http.StatusCreated)
}

// Get возвращает заказ по идентификатору.
func (h *Order) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	o, err := h.processor.Get(r.Context(), id)
	if err != nil {
		h.orderError(w, err, "Failed to fetch order")

		return
	}

	success(w, response{Data: o}, http.StatusOK)
}

// GetAll возвращает все заказы, от самых новых к самым старым.
func (h *Order) GetAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.processor.GetAll(r.Context())
	if err != nil {
		h.logger.Errorw("orders fetch failed", "error", err)
		serverError(w, "Failed to fetch orders")

		return
	}

	count := len(orders)
	success(w, response{Count: &count, Data: orders}, http.StatusOK)
}

// GetByPhone возвращает историю заказов клиента по номеру телефона.
func (h *Order) GetByPhone(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	if err := h.validator.Var(r.Context(), phone, "ghphone"); err != nil {
		validationFailed(w, map[string]string{"phoneNumber": "Please enter a valid Ghana phone number"})

		return
	}

	orders, err := h.processor.GetByPhone(r.Context(), entity.LocalPhone(phone))
	if err != nil {
		h.logger.Errorw("customer orders fetch failed", "error", err)
		serverError(w, "Failed to fetch customer orders")

		return
	}

	count := len(orders)
	success(w, response{Count: &count, Data: orders}, http.StatusOK)
}

// UpdateStatus устанавливает статус выполнения заказа. Если статус неизвестен,
// возвращает ответ с кодом 400, заказ не изменяется.
func (h *Order) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	req := StatusRequest{}
	if err := readJSONBody(w, r, &req); err != nil {
		validationFailed(w, map[string]string{"body": "Invalid JSON body"})

		return
	}

	if err := h.validator.Struct(r.Context(), &req); err != nil {
		validationFailed(w, validator.Messages(err))

		return
	}

	o, err := h.processor.UpdateStatus(r.Context(), id, req.Status)
	if errors.Is(err, inerr.ErrInvalidStatus) {
		validationFailed(w, map[string]string{"status": "Invalid status value"})

		return
	}

	if err != nil {
		h.orderError(w, err, "Failed to update order status")

		return
	}

	success(w, response{Message: "Order status updated successfully", Data: o}, http.StatusOK)
}

func (h *Order) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	if err := h.processor.Delete(r.Context(), id); err != nil {
		h.orderError(w, err, "Failed to delete order")

		return
	}

	success(w, response{Message: "Order deleted successfully"}, http.StatusOK)
}

func (h *Order) orderError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, inerr.ErrOrderNotFound) {
		notFound(w, "Order not found")

		return
	}

	h.logger.Errorw(message, "error", err)
	serverError(w, message)
}

// orderID разбирает идентификатор заказа из пути. Заказ с некорректным
// идентификатором не может существовать, поэтому возвращается ответ с кодом 404.
func orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w, "Order not found")

		return uuid.Nil, false
	}

	return id, true
}
