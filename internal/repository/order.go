package repository

import (
	"context"
	"database/sql"
	"errors"
	"github.com/google/uuid"
	"github.com/ivanpodgorny/campusdelivery/internal/entity"
	inerr "github.com/ivanpodgorny/campusdelivery/internal/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"time"
)

type Order struct {
	db *sql.DB
}

type scanner interface {
	Scan(dest ...any) error
}

const orderColumns = `id, name, phone_number, residence_type, block, room, hall, hostel, order_description,
       order_amount, delivery_fee, total_amount, payment_status, payment_reference, payment_date,
       status, created_at, updated_at`

func NewOrder(db *sql.DB) *Order {
	return &Order{db: db}
}

// Create сохраняет новый заказ. Итоговая сумма и время создания заполняются
// значениями, вычисленными базой данных.
func (r *Order) Create(ctx context.Context, o entity.Order) (entity.Order, error) {
	err := r.db.QueryRowContext(
		ctx,
		`
INSERT INTO orders (id, name, phone_number, residence_type, block, room, hall, hostel, order_description,
                    order_amount, delivery_fee, payment_status, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING total_amount, created_at, updated_at
		`,
		o.ID,
		o.Name,
		o.PhoneNumber,
		o.ResidenceType,
		o.Block,
		o.Room,
		o.Hall,
		o.Hostel,
		o.OrderDescription,
		o.OrderAmount,
		o.DeliveryFee,
		o.PaymentStatus,
		o.Status,
	).Scan(&o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return entity.Order{}, storageError(err)
	}

	return o, nil
}

// FindByID возвращает заказ по идентификатору. Если заказ не найден, возвращает
// ошибку errors.ErrOrderNotFound.
func (r *Order) FindByID(ctx context.Context, id uuid.UUID) (entity.Order, error) {
	return r.findOne(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
}

// FindByReference возвращает заказ по ссылке на платеж. Если заказ не найден,
// возвращает ошибку errors.ErrOrderNotFound.
func (r *Order) FindByReference(ctx context.Context, reference string) (entity.Order, error) {
	return r.findOne(ctx, "SELECT "+orderColumns+" FROM orders WHERE payment_reference = $1", reference)
}

// FindAll возвращает все заказы, отсортированные от самых новых к самым старым.
func (r *Order) FindAll(ctx context.Context) ([]entity.Order, error) {
	return r.findAll(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC")
}

// FindAllByPhone возвращает заказы клиента с указанным номером телефона,
// отсортированные от самых новых к самым старым.
func (r *Order) FindAllByPhone(ctx context.Context, phone string) ([]entity.Order, error) {
	return r.findAll(
		ctx,
		"SELECT "+orderColumns+" FROM orders WHERE phone_number = $1 ORDER BY created_at DESC",
		phone,
	)
}

// UpdateStatus устанавливает статус выполнения заказа и возвращает обновленный заказ.
func (r *Order) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) (entity.Order, error) {
	return r.findOne(
		ctx,
		"UPDATE orders SET status = $1, updated_at = now() WHERE id = $2 RETURNING "+orderColumns,
		status,
		id,
	)
}

// SetPaymentReference сохраняет ссылку на платеж, если оплата заказа еще не завершена.
// Если оплата завершена, возвращает ошибку errors.ErrPaymentNotPending. Если ссылка
// уже принадлежит другому заказу, возвращает ошибку errors.ErrReferenceExists.
func (r *Order) SetPaymentReference(ctx context.Context, id uuid.UUID, reference string) (entity.Order, error) {
	o, err := r.findOne(
		ctx,
		`
UPDATE orders
SET payment_reference = $1, updated_at = now()
WHERE id = $2
  AND payment_status = 'pending'
RETURNING `+orderColumns,
		reference,
		id,
	)
	if !errors.Is(err, inerr.ErrOrderNotFound) {
		return o, err
	}

	if _, err = r.FindByID(ctx, id); err != nil {
		return entity.Order{}, err
	}

	return entity.Order{}, inerr.ErrPaymentNotPending
}

// ResolvePayment переводит оплату заказа с указанной ссылкой в окончательный статус.
// Обновление выполняется, только если оплата все еще ожидается, поэтому из нескольких
// конкурирующих вызовов применяется только первый. Возвращает текущее состояние
// заказа и признак того, что обновление было применено этим вызовом.
func (r *Order) ResolvePayment(
	ctx context.Context,
	reference string,
	status entity.PaymentStatus,
	paidAt *time.Time,
) (entity.Order, bool, error) {
	o, err := r.findOne(
		ctx,
		`
UPDATE orders
SET payment_status = $1, payment_date = $2, updated_at = now()
WHERE payment_reference = $3
  AND payment_status = 'pending'
RETURNING `+orderColumns,
		status,
		paidAt,
		reference,
	)
	if err == nil {
		return o, true, nil
	}

	if !errors.Is(err, inerr.ErrOrderNotFound) {
		return entity.Order{}, false, err
	}

	o, err = r.FindByReference(ctx, reference)

	return o, false, err
}

// Delete удаляет заказ. Если заказ не найден, возвращает ошибку errors.ErrOrderNotFound.
func (r *Order) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return storageError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return storageError(err)
	}

	if n == 0 {
		return inerr.ErrOrderNotFound
	}

	return nil
}

func (r *Order) findOne(ctx context.Context, query string, args ...any) (entity.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Order{}, inerr.ErrOrderNotFound
	}

	if err != nil {
		return entity.Order{}, storageError(err)
	}

	return o, nil
}

func (r *Order) findAll(ctx context.Context, query string, args ...any) (orders []entity.Order, err error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(err)
	}

	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	orders = []entity.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, storageError(err)
		}

		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, storageError(err)
	}

	return orders, nil
}

func scanOrder(s scanner) (entity.Order, error) {
	var (
		o         entity.Order
		reference sql.NullString
	)
	err := s.Scan(
		&o.ID,
		&o.Name,
		&o.PhoneNumber,
		&o.ResidenceType,
		&o.Block,
		&o.Room,
		&o.Hall,
		&o.Hostel,
		&o.OrderDescription,
		&o.OrderAmount,
		&o.DeliveryFee,
		&o.TotalAmount,
		&o.PaymentStatus,
		&reference,
		&o.PaymentDate,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	o.PaymentReference = reference.String

	return o, err
}

// storageError помечает ошибку драйвера как ошибку хранилища. Нарушение уникальности
// ссылки на платеж возвращается как errors.ErrReferenceExists.
func storageError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return inerr.ErrReferenceExists
	}

	return errors.Join(inerr.ErrStorage, err)
}
