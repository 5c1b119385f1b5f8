package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/ivanpodgorny/campusdelivery/internal/entity"
	inerr "github.com/ivanpodgorny/campusdelivery/internal/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

var columns = []string{
	"id", "name", "phone_number", "residence_type", "block", "room", "hall", "hostel", "order_description",
	"order_amount", "delivery_fee", "total_amount", "payment_status", "payment_reference", "payment_date",
	"status", "created_at", "updated_at",
}

func orderRow(o entity.Order) []driver.Value {
	var (
		reference any
		paidAt    any
	)
	if o.PaymentReference != "" {
		reference = o.PaymentReference
	}
	if o.PaymentDate != nil {
		paidAt = *o.PaymentDate
	}

	return []driver.Value{
		o.ID.String(),
		o.Name,
		o.PhoneNumber,
		string(o.ResidenceType),
		o.Block,
		o.Room,
		o.Hall,
		o.Hostel,
		o.OrderDescription,
		o.OrderAmount.String(),
		o.DeliveryFee.String(),
		o.TotalAmount.String(),
		string(o.PaymentStatus),
		reference,
		paidAt,
		string(o.Status),
		o.CreatedAt,
		o.UpdatedAt,
	}
}

func newOrder() entity.Order {
	o := entity.NewOrder(uuid.New(), entity.OrderDraft{
		Name:             "Ama",
		PhoneNumber:      "0244000000",
		OrderDescription: "2 meals",
		OrderAmount:      entity.MustMoney("20.00"),
		Residence:        entity.LegonHall{Block: "A", Room: "12"},
	})
	o.CreatedAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	o.UpdatedAt = o.CreatedAt

	return o
}

func assertOrder(t *testing.T, want, got entity.Order) {
	t.Helper()

	assert.True(t, want.OrderAmount.Equal(got.OrderAmount), "сумма заказа")
	assert.True(t, want.DeliveryFee.Equal(got.DeliveryFee), "стоимость доставки")
	assert.True(t, want.TotalAmount.Equal(got.TotalAmount), "итоговая сумма")
	want.OrderAmount, got.OrderAmount = entity.Money{}, entity.Money{}
	want.DeliveryFee, got.DeliveryFee = entity.Money{}, entity.Money{}
	want.TotalAmount, got.TotalAmount = entity.Money{}, entity.Money{}
	assert.Equal(t, want, got)
}

func TestOrder_Create(t *testing.T) {
	var (
		ctx    = context.Background()
		order  = newOrder()
		failed = newOrder()
		query  = `
INSERT INTO orders (id, name, phone_number, residence_type, block, room, hall, hostel, order_description,
                    order_amount, delivery_fee, payment_status, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING total_amount, created_at, updated_at
`
	)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	mock.ExpectQuery(query).
		WithArgs(
			order.ID, order.Name, order.PhoneNumber, order.ResidenceType, "A", "12", "", "", order.OrderDescription,
			order.OrderAmount, order.DeliveryFee, entity.PaymentStatusPending, entity.OrderStatusReceived,
		).
		WillReturnRows(sqlmock.NewRows([]string{"total_amount", "created_at", "updated_at"}).
			AddRow("26.00", order.CreatedAt, order.UpdatedAt))
	mock.ExpectQuery(query).
		WithArgs(
			failed.ID, failed.Name, failed.PhoneNumber, failed.ResidenceType, "A", "12", "", "", failed.OrderDescription,
			failed.OrderAmount, failed.DeliveryFee, entity.PaymentStatusPending, entity.OrderStatusReceived,
		).
		WillReturnError(errors.New("connection refused"))

	created, err := r.Create(ctx, order)
	require.NoError(t, err, "успешное создание заказа")
	assertOrder(t, order, created)
	assert.True(t, created.TotalAmount.Equal(entity.MustMoney("26.00")), "итоговая сумма из базы данных")

	_, err = r.Create(ctx, failed)
	assert.ErrorIs(t, err, inerr.ErrStorage, "ошибка базы данных")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrder_FindByID(t *testing.T) {
	var (
		ctx       = context.Background()
		order     = newOrder()
		missingID = uuid.New()
		errID     = uuid.New()
		query     = "SELECT " + orderColumns + " FROM orders WHERE id = $1"
	)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	mock.ExpectQuery(query).
		WithArgs(order.ID).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(orderRow(order)...))
	mock.ExpectQuery(query).
		WithArgs(missingID).
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery(query).
		WithArgs(errID).
		WillReturnError(errors.New("connection refused"))

	found, err := r.FindByID(ctx, order.ID)
	require.NoError(t, err, "заказ найден")
	assertOrder(t, order, found)

	_, err = r.FindByID(ctx, missingID)
	assert.ErrorIs(t, err, inerr.ErrOrderNotFound, "заказ не найден")

	_, err = r.FindByID(ctx, errID)
	assert.ErrorIs(t, err, inerr.ErrStorage, "ошибка базы данных")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrder_FindByReference(t *testing.T) {
	var (
		ctx    = context.Background()
		paidAt = time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC)
		order  = newOrder()
		query  = "SELECT " + orderColumns + " FROM orders WHERE payment_reference = $1"
	)
	order.PaymentReference = "INTRA-HD-1709287200000-" + order.ID.String()[:8]
	order.PaymentStatus = entity.PaymentStatusCompleted
	order.PaymentDate = &paidAt

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	mock.ExpectQuery(query).
		WithArgs(order.PaymentReference).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(orderRow(order)...))
	mock.ExpectQuery(query).
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows(columns))

	found, err := r.FindByReference(ctx, order.PaymentReference)
	require.NoError(t, err, "заказ найден по ссылке на платеж")
	assertOrder(t, order, found)

	_, err = r.FindByReference(ctx, "unknown")
	assert.ErrorIs(t, err, inerr.ErrOrderNotFound, "ссылка не принадлежит ни одному заказу")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrder_FindAll(t *testing.T) {
	var (
		ctx    = context.Background()
		newer  = newOrder()
		older  = newOrder()
		query  = "SELECT " + orderColumns + " FROM orders ORDER BY created_at DESC"
		pQuery = "SELECT " + orderColumns + " FROM orders WHERE phone_number = $1 ORDER BY created_at DESC"
	)
	older.CreatedAt = newer.CreatedAt.Add(-time.Hour)
	older.UpdatedAt = older.CreatedAt

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	mock.ExpectQuery(query).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(orderRow(newer)...).AddRow(orderRow(older)...))
	mock.ExpectQuery(pQuery).
		WithArgs("0244000000").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(orderRow(newer)...))
	mock.ExpectQuery(pQuery).
		WithArgs("0200000000").
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery(query).
		WillReturnError(errors.New("connection refused"))

	orders, err := r.FindAll(ctx)
	require.NoError(t, err, "успешное получение заказов")
	require.Len(t, orders, 2)
	assertOrder(t, newer, orders[0])
	assertOrder(t, older, orders[1])

	orders, err = r.FindAllByPhone(ctx, "0244000000")
	require.NoError(t, err, "заказы клиента")
	require.Len(t, orders, 1)
	assertOrder(t, newer, orders[0])

	orders, err = r.FindAllByPhone(ctx, "0200000000")
	require.NoError(t, err, "у клиента нет заказов")
	assert.NotNil(t, orders)
	assert.Empty(t, orders)

	_, err = r.FindAll(ctx)
	assert.ErrorIs(t, err, inerr.ErrStorage, "ошибка базы данных")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrder_UpdateStatus(t *testing.T) {
	var (
		ctx       = context.Background()
		order     = newOrder()
		missingID = uuid.New()
		query     = "UPDATE orders SET status = $1, updated_at = now() WHERE id = $2 RETURNING " + orderColumns
	)
	updated := order
	updated.Status = entity.OrderStatusInDelivery

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	mock.ExpectQuery(query).
		WithArgs(entity.OrderStatusInDelivery, order.ID).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(orderRow(updated)...))
	mock.ExpectQuery(query).
		WithArgs(entity.OrderStatusDelivered, missingID).
		WillReturnRows(sqlmock.NewRows(columns))

	found, err := r.UpdateStatus(ctx, order.ID, entity.OrderStatusInDelivery)
	require.NoError(t, err, "статус обновлен")
	assert.Equal(t, entity.OrderStatusInDelivery, found.Status)

	_, err = r.UpdateStatus(ctx, missingID, entity.OrderStatusDelivered)
	assert.ErrorIs(t, err, inerr.ErrOrderNotFound, "заказ не найден")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrder_SetPaymentReference(t *testing.T) {
	var (
		ctx         = context.Background()
		order       = newOrder()
		paid        = newOrder()
		missingID   = uuid.New()
		duplicateID = uuid.New()
		reference   = "INTRA-HD-1709287200000-abcdef12"
		updateQuery = `
UPDATE orders
SET payment_reference = $1, updated_at = now()
WHERE id = $2
  AND payment_status = 'pending'
RETURNING ` + orderColumns
		selectQuery = "SELECT " + orderColumns + " FROM orders WHERE id = $1"
	)
	withReference := order
	withReference.PaymentReference = reference
	paid.PaymentStatus = entity.PaymentStatusCompleted

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	mock.ExpectQuery(updateQuery).
		WithArgs(reference, order.ID).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(orderRow(withReference)...))
	mock.ExpectQuery(updateQuery).
		WithArgs(reference, paid.ID).
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery(selectQuery).
		WithArgs(paid.ID).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(orderRow(paid)...))
	mock.ExpectQuery(updateQuery).
		WithArgs(reference, missingID).
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery(selectQuery).
		WithArgs(missingID).
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery(updateQuery).
		WithArgs(reference, duplicateID).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	found, err := r.SetPaymentReference(ctx, order.ID, reference)
	require.NoError(t, err, "ссылка сохранена")
	assert.Equal(t, reference, found.PaymentReference)
	assert.Equal(t, entity.PaymentStatusPending, found.PaymentStatus)

	_, err = r.SetPaymentReference(ctx, paid.ID, reference)
	assert.ErrorIs(t, err, inerr.ErrPaymentNotPending, "заказ уже оплачен")

	_, err = r.SetPaymentReference(ctx, missingID, reference)
	assert.ErrorIs(t, err, inerr.ErrOrderNotFound, "заказ не найден")

	_, err = r.SetPaymentReference(ctx, duplicateID, reference)
	assert.ErrorIs(t, err, inerr.ErrReferenceExists, "ссылка принадлежит другому заказу")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrder_ResolvePayment(t *testing.T) {
	var (
		ctx         = context.Background()
		paidAt      = time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC)
		order       = newOrder()
		reference   = "INTRA-HD-1709287200000-abcdef12"
		updateQuery = `
UPDATE orders
SET payment_status = $1, payment_date = $2, updated_at = now()
WHERE payment_reference = $3
  AND payment_status = 'pending'
RETURNING ` + orderColumns
		selectQuery = "SELECT " + orderColumns + " FROM orders WHERE payment_reference = $1"
	)
	order.PaymentReference = reference
	completed := order
	completed.PaymentStatus = entity.PaymentStatusCompleted
	completed.PaymentDate = &paidAt

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	mock.ExpectQuery(updateQuery).
		WithArgs(entity.PaymentStatusCompleted, paidAt, reference).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(orderRow(completed)...))
	mock.ExpectQuery(updateQuery).
		WithArgs(entity.PaymentStatusFailed, nil, reference).
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery(selectQuery).
		WithArgs(reference).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(orderRow(completed)...))
	mock.ExpectQuery(updateQuery).
		WithArgs(entity.PaymentStatusFailed, nil, "unknown").
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery(selectQuery).
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery(updateQuery).
		WithArgs(entity.PaymentStatusFailed, nil, "broken").
		WillReturnError(errors.New("connection refused"))

	found, applied, err := r.ResolvePayment(ctx, reference, entity.PaymentStatusCompleted, &paidAt)
	require.NoError(t, err, "оплата подтверждена")
	assert.True(t, applied)
	assert.Equal(t, entity.PaymentStatusCompleted, found.PaymentStatus)
	require.NotNil(t, found.PaymentDate)
	assert.True(t, paidAt.Equal(*found.PaymentDate))

	found, applied, err = r.ResolvePayment(ctx, reference, entity.PaymentStatusFailed, nil)
	require.NoError(t, err, "устаревший результат не перезаписывает оплату")
	assert.False(t, applied)
	assert.Equal(t, entity.PaymentStatusCompleted, found.PaymentStatus)

	_, applied, err = r.ResolvePayment(ctx, "unknown", entity.PaymentStatusFailed, nil)
	assert.ErrorIs(t, err, inerr.ErrOrderNotFound, "ссылка не принадлежит ни одному заказу")
	assert.False(t, applied)

	_, _, err = r.ResolvePayment(ctx, "broken", entity.PaymentStatusFailed, nil)
	assert.ErrorIs(t, err, inerr.ErrStorage, "ошибка базы данных")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrder_Delete(t *testing.T) {
	var (
		ctx       = context.Background()
		id        = uuid.New()
		missingID = uuid.New()
		query     = "DELETE FROM orders WHERE id = $1"
	)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	mock.ExpectExec(query).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).
		WithArgs(missingID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, r.Delete(ctx, id), "заказ удален")
	assert.ErrorIs(t, r.Delete(ctx, missingID), inerr.ErrOrderNotFound, "заказ не найден")

	assert.NoError(t, mock.ExpectationsWereMet())
}
