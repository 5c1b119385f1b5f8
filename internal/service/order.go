package service

import (
	"context"
	"github.com/google/uuid"
	"github.com/ivanpodgorny/campusdelivery/internal/entity"
	inerr "github.com/ivanpodgorny/campusdelivery/internal/errors"
	"go.uber.org/zap"
)

type Order struct {
	repository OrderRepository
	queue      chan<- entity.Order
	logger     *zap.SugaredLogger
}

type OrderRepository interface {
	Create(ctx context.Context, o entity.Order) (entity.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (entity.Order, error)
	FindAll(ctx context.Context) ([]entity.Order, error)
	FindAllByPhone(ctx context.Context, phone string) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) (entity.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NewOrder создает сервис заказов. Если q равен nil, уведомления о новых заказах
// не отправляются.
func NewOrder(r OrderRepository, q chan<- entity.Order, l *zap.SugaredLogger) *Order {
	return &Order{
		repository: r,
		queue:      q,
		logger:     l,
	}
}

// Create сохраняет новый заказ и ставит его в очередь на отправку уведомления.
// Если очередь заполнена, уведомление пропускается.
func (s *Order) Create(ctx context.Context, d entity.OrderDraft) (entity.Order, error) {
	o, err := s.repository.Create(ctx, entity.NewOrder(uuid.New(), d))
	if err != nil {
		return entity.Order{}, err
	}

	s.logger.Infow("order created", "order", o.ID, "total", o.TotalAmount.String())

	if s.queue != nil {
		select {
		case s.queue <- o:
		default:
			s.logger.Warnw("notification queue is full", "order", o.ID)
		}
	}

	return o, nil
}

func (s *Order) Get(ctx context.Context, id uuid.UUID) (entity.Order, error) {
	return s.repository.FindByID(ctx, id)
}

// GetAll возвращает все заказы, от самых новых к самым старым.
func (s *Order) GetAll(ctx context.Context) ([]entity.Order, error) {
	return s.repository.FindAll(ctx)
}

// GetByPhone возвращает историю заказов клиента.
func (s *Order) GetByPhone(ctx context.Context, phone string) ([]entity.Order, error) {
	return s.repository.FindAllByPhone(ctx, phone)
}

// UpdateStatus устанавливает статус выполнения заказа. Допустим переход из любого
// статуса в любой. Если статус неизвестен, возвращает ошибку errors.ErrInvalidStatus
// без изменения заказа.
func (s *Order) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) (entity.Order, error) {
	if !status.Valid() {
		return entity.Order{}, inerr.ErrInvalidStatus
	}

	o, err := s.repository.UpdateStatus(ctx, id, status)
	if err != nil {
		return entity.Order{}, err
	}

	s.logger.Infow("order status updated", "order", o.ID, "status", o.Status)

	return o, nil
}

func (s *Order) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("order deleted", "order", id)

	return nil
}
