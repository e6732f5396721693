package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Matuku45/shuttle-booking-system/internal/config"
	intdb "github.com/Matuku45/shuttle-booking-system/internal/db"
	"github.com/Matuku45/shuttle-booking-system/internal/domain"
	"github.com/Matuku45/shuttle-booking-system/internal/domain/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

func (r PaymentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

// EnsureTable bootstraps the payments table on startup. The booking link
// is nullable and detaches when the booking is deleted.
func (r PaymentRepository) EnsureTable(ctx context.Context) error {
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	ddl := `
CREATE TABLE IF NOT EXISTS payments (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	passenger_name VARCHAR(255) NOT NULL,
	shuttle_id BIGINT NOT NULL,
	booking_id BIGINT NULL,
	amount DECIMAL(10,2) NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'Pending',
	payment_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_payments_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := r.db().ExecContext(ctx, ddl)
	return err
}

const paymentColumns = "id, passenger_name, shuttle_id, booking_id, amount, status, payment_date"

func scanPayment(row interface{ Scan(...any) error }) (models.Payment, error) {
	var p models.Payment
	var bookingID sql.NullInt64
	err := row.Scan(&p.ID, &p.PassengerName, &p.ShuttleID, &bookingID, &p.Amount, &p.Status, &p.PaymentDate)
	if bookingID.Valid {
		p.BookingID = &bookingID.Int64
	}
	return p, err
}

func (r PaymentRepository) List(ctx context.Context) ([]models.Payment, error) {
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	rows, err := r.db().QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r PaymentRepository) GetByID(ctx context.Context, id int64) (models.Payment, error) {
	if id <= 0 {
		return models.Payment{}, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	p, err := scanPayment(r.db().QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = ? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, domain.NotFoundError{Resource: "payment", Err: err}
	}
	return p, err
}

func (r PaymentRepository) Create(ctx context.Context, p models.Payment) (models.Payment, error) {
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	var bookingID any
	if p.BookingID != nil {
		bookingID = *p.BookingID
	}

	var res sql.Result
	err := intdb.Retry(ctx, func() error {
		var execErr error
		res, execErr = r.db().ExecContext(ctx, `
			INSERT INTO payments (passenger_name, shuttle_id, booking_id, amount, status)
			VALUES (?, ?, ?, ?, ?)`,
			p.PassengerName, p.ShuttleID, bookingID, p.Amount, p.Status)
		return execErr
	})
	if err != nil {
		return models.Payment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Payment{}, err
	}
	return r.GetByID(ctx, id)
}

// Update applies the fields present in the patch. Any status change also
// refreshes payment_date.
func (r PaymentRepository) Update(ctx context.Context, id int64, p models.PaymentPatch) (models.Payment, error) {
	if id <= 0 {
		return models.Payment{}, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}

	sets := []string{}
	args := []any{}
	if p.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *p.Amount)
	}
	if p.Status != nil {
		sets = append(sets, "status = ?", "payment_date = NOW()")
		args = append(args, *p.Status)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	args = append(args, id)
	if _, err := r.db().ExecContext(ctx, `UPDATE payments SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return models.Payment{}, err
	}
	return r.GetByID(ctx, id)
}

func (r PaymentRepository) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	res, err := r.db().ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "payment"}
	}
	return nil
}
