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

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

// EnsureTable bootstraps the bookings table on startup. shuttle_id is a
// weak reference: shuttles remain deletable by the operator, so no FK.
func (r BookingRepository) EnsureTable(ctx context.Context) error {
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	ddl := `
CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	passenger_name VARCHAR(255) NOT NULL,
	shuttle_id BIGINT NOT NULL,
	origin VARCHAR(255) NOT NULL DEFAULT '',
	destination VARCHAR(255) NOT NULL DEFAULT '',
	departure_date VARCHAR(20) NOT NULL DEFAULT '',
	departure_time VARCHAR(10) NOT NULL DEFAULT '',
	duration VARCHAR(50) NOT NULL DEFAULT '',
	pickup_window INT NOT NULL DEFAULT 15,
	seats INT NOT NULL DEFAULT 1,
	seats_left INT NOT NULL DEFAULT 0,
	price_per_seat DECIMAL(10,2) NOT NULL DEFAULT 0,
	status VARCHAR(20) NOT NULL DEFAULT 'Pending',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_bookings_shuttle (shuttle_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := r.db().ExecContext(ctx, ddl)
	return err
}

const bookingColumns = `id, passenger_name, shuttle_id, origin, destination,
	departure_date, departure_time, duration, pickup_window,
	seats, seats_left, price_per_seat, status, created_at`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.PassengerName, &b.ShuttleID, &b.Origin, &b.Destination,
		&b.DepartureDate, &b.DepartureTime, &b.Duration, &b.PickupWindow,
		&b.Seats, &b.SeatsLeft, &b.PricePerSeat, &b.Status, &b.CreatedAt)
	return b, err
}

func (r BookingRepository) List(ctx context.Context) ([]models.Booking, error) {
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	rows, err := r.db().QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r BookingRepository) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	b, err := scanBooking(r.db().QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return b, domain.NotFoundError{Resource: "booking", Err: err}
	}
	return b, err
}

// Create reserves seats and inserts the booking in one transaction.
// The decrement is an atomic conditional update, so concurrent bookings
// against the same shuttle serialize at the store and can never take the
// seat count below zero. On any failure the whole transaction rolls back.
func (r BookingRepository) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	var id int64
	err := intdb.Retry(ctx, func() error {
		tx, err := r.db().BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		res, err := tx.ExecContext(ctx, `
			UPDATE shuttles
			SET seats = seats - ?, updated_at = NOW()
			WHERE id = ? AND seats >= ?`,
			b.Seats, b.ShuttleID, b.Seats)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var have int
			err := tx.QueryRowContext(ctx, `SELECT seats FROM shuttles WHERE id = ?`, b.ShuttleID).Scan(&have)
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NotFoundError{Resource: "shuttle", Err: err}
			}
			if err != nil {
				return err
			}
			return domain.ConflictError{Resource: "booking", Msg: "insufficient seats", Err: nil}
		}

		var seatsLeft int
		var price float64
		if err := tx.QueryRowContext(ctx, `SELECT seats, price FROM shuttles WHERE id = ?`, b.ShuttleID).
			Scan(&seatsLeft, &price); err != nil {
			return err
		}
		if b.PricePerSeat == 0 {
			b.PricePerSeat = price
		}

		ins, err := tx.ExecContext(ctx, `
			INSERT INTO bookings (passenger_name, shuttle_id, origin, destination,
				departure_date, departure_time, duration, pickup_window,
				seats, seats_left, price_per_seat, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.PassengerName, b.ShuttleID, b.Origin, b.Destination,
			b.DepartureDate, b.DepartureTime, b.Duration, b.PickupWindow,
			b.Seats, seatsLeft, b.PricePerSeat, models.BookingPending)
		if err != nil {
			return err
		}
		id, err = ins.LastInsertId()
		if err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return models.Booking{}, err
	}
	return r.GetByID(ctx, id)
}

// Confirm flips a Pending booking to Confirmed with a guarded update.
func (r BookingRepository) Confirm(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	res, err := r.db().ExecContext(ctx, `
		UPDATE bookings SET status = ? WHERE id = ? AND status = ?`,
		models.BookingConfirmed, id, models.BookingPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ConflictError{Resource: "booking", Msg: "invalid status transition"}
	}
	return nil
}

// Cancel flips the booking to Cancelled and restores its seats onto the
// shuttle, symmetric with Create. The row lock on the booking keeps a
// concurrent re-cancel from refunding twice.
func (r BookingRepository) Cancel(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	return intdb.Retry(ctx, func() error {
		tx, err := r.db().BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		var status string
		var seats int
		var shuttleID int64
		err = tx.QueryRowContext(ctx, `
			SELECT status, seats, shuttle_id FROM bookings WHERE id = ? FOR UPDATE`, id).
			Scan(&status, &seats, &shuttleID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "booking", Err: err}
		}
		if err != nil {
			return err
		}
		if !models.ValidBookingTransition(status, models.BookingCancelled) {
			return domain.ConflictError{Resource: "booking", Msg: "invalid status transition"}
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE bookings SET status = ? WHERE id = ?`,
			models.BookingCancelled, id); err != nil {
			return err
		}

		if err := refundSeats(ctx, tx, shuttleID, seats); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// Delete hard-removes a booking. Confirmed bookings must be cancelled
// first. Deleting a Pending booking hands its seats back so the shuttle
// inventory stays consistent.
func (r BookingRepository) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	return intdb.Retry(ctx, func() error {
		tx, err := r.db().BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		var status string
		var seats int
		var shuttleID int64
		err = tx.QueryRowContext(ctx, `
			SELECT status, seats, shuttle_id FROM bookings WHERE id = ? FOR UPDATE`, id).
			Scan(&status, &seats, &shuttleID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "booking", Err: err}
		}
		if err != nil {
			return err
		}
		if status == models.BookingConfirmed {
			return domain.ConflictError{Resource: "booking", Msg: "confirmed booking must be cancelled before deletion"}
		}

		if status == models.BookingPending {
			if err := refundSeats(ctx, tx, shuttleID, seats); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// UpdateFields applies non-status fields present in the patch. Status
// changes go through Confirm/Cancel so the transition rules and seat
// refund always apply.
func (r BookingRepository) UpdateFields(ctx context.Context, id int64, p models.BookingPatch) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}

	sets := []string{}
	args := []any{}
	if p.PassengerName != nil {
		sets = append(sets, "passenger_name = ?")
		args = append(args, *p.PassengerName)
	}
	if p.Origin != nil {
		sets = append(sets, "origin = ?")
		args = append(args, *p.Origin)
	}
	if p.Destination != nil {
		sets = append(sets, "destination = ?")
		args = append(args, *p.Destination)
	}
	if p.DepartureDate != nil {
		sets = append(sets, "departure_date = ?")
		args = append(args, *p.DepartureDate)
	}
	if p.DepartureTime != nil {
		sets = append(sets, "departure_time = ?")
		args = append(args, *p.DepartureTime)
	}
	if p.Duration != nil {
		sets = append(sets, "duration = ?")
		args = append(args, *p.Duration)
	}
	if p.PickupWindow != nil {
		sets = append(sets, "pickup_window = ?")
		args = append(args, *p.PickupWindow)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	args = append(args, id)
	if _, err := r.db().ExecContext(ctx, `UPDATE bookings SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return models.Booking{}, err
	}
	return r.GetByID(ctx, id)
}

// refundSeats hands seats back without exceeding the shuttle's original
// capacity. A missing shuttle row is tolerated: the operator may have
// removed the route while bookings were still open.
func refundSeats(ctx context.Context, tx *sql.Tx, shuttleID int64, seats int) error {
	if seats <= 0 {
		return nil
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE shuttles
		SET seats = LEAST(capacity, seats + ?), updated_at = NOW()
		WHERE id = ?`,
		seats, shuttleID)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
