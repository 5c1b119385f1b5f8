package migrations

import (
	"database/sql"
	"github.com/lopezator/migrator"
)

func Up(db *sql.DB) error {
	m, err := migrator.New(
		migrator.Migrations(
			&migrator.MigrationNoTx{
				Name: "Create order enums",
				Func: createOrderEnums,
			},
			&migrator.MigrationNoTx{
				Name: "Create orders table",
				Func: createOrdersTable,
			},
			&migrator.MigrationNoTx{
				Name: "Create orders indexes",
				Func: createOrdersIndexes,
			},
			&migrator.Migration{
				Name: "Normalize phone numbers",
				Func: normalizePhoneNumbers,
			},
		),
	)
	if err != nil {
		return err
	}

	return m.Migrate(db)
}

func createOrderEnums(db *sql.DB) error {
	if _, err := db.Exec("CREATE TYPE residence_type AS ENUM ('legon-hall', 'traditional-halls', 'hostels')"); err != nil {
		return err
	}

	if _, err := db.Exec("CREATE TYPE payment_status AS ENUM ('pending', 'completed', 'failed')"); err != nil {
		return err
	}

	_, err := db.Exec("CREATE TYPE order_status AS ENUM ('received', 'processing', 'in-delivery', 'delivered', 'cancelled')")

	return err
}

// Итоговая сумма вычисляется базой данных и не может быть изменена напрямую.
func createOrdersTable(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE orders
(
    id                uuid PRIMARY KEY,
    name              varchar(100)   NOT NULL,
    phone_number      varchar(16)    NOT NULL,
    residence_type    residence_type NOT NULL,
    block             varchar(50)    NOT NULL DEFAULT '',
    room              varchar(50)    NOT NULL DEFAULT '',
    hall              varchar(100)   NOT NULL DEFAULT '',
    hostel            varchar(100)   NOT NULL DEFAULT '',
    order_description text           NOT NULL,
    order_amount      numeric(10, 2) NOT NULL,
    CHECK (order_amount > 0),
    delivery_fee      numeric(10, 2) NOT NULL,
    total_amount      numeric(10, 2) GENERATED ALWAYS AS (order_amount + delivery_fee) STORED,
    payment_status    payment_status NOT NULL DEFAULT 'pending',
    payment_reference varchar(64) UNIQUE,
    payment_date      timestamptz,
    status            order_status   NOT NULL DEFAULT 'received',
    created_at        timestamptz    NOT NULL DEFAULT now(),
    updated_at        timestamptz    NOT NULL DEFAULT now()
)
	`)

	return err
}

func createOrdersIndexes(db *sql.DB) error {
	if _, err := db.Exec("CREATE INDEX orders_phone_number_idx ON orders (phone_number, created_at DESC)"); err != nil {
		return err
	}

	_, err := db.Exec("CREATE INDEX orders_created_at_idx ON orders (created_at DESC)")

	return err
}

func normalizePhoneNumbers(tx *sql.Tx) error {
	_, err := tx.Exec("UPDATE orders SET phone_number = '0' || substring(phone_number from 5) WHERE phone_number LIKE '+233%'")

	return err
}
