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

type ShuttleRepository struct {
	DB *sql.DB
}

func (r ShuttleRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

// EnsureTable bootstraps the shuttles table on startup. Capacity records
// the seat count at creation so refunds can never overshoot it.
func (r ShuttleRepository) EnsureTable(ctx context.Context) error {
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	ddl := `
CREATE TABLE IF NOT EXISTS shuttles (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	route VARCHAR(255) NOT NULL,
	` + "`date`" + ` VARCHAR(20) NOT NULL,
	` + "`time`" + ` VARCHAR(10) NOT NULL,
	duration VARCHAR(50) NOT NULL DEFAULT '',
	pickup VARCHAR(255) NOT NULL DEFAULT '',
	seats INT NOT NULL,
	capacity INT NOT NULL,
	price DECIMAL(10,2) NOT NULL DEFAULT 0,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := r.db().ExecContext(ctx, ddl)
	return err
}

const shuttleColumns = "id, route, `date`, `time`, duration, pickup, seats, capacity, price, updated_at"

func scanShuttle(row interface{ Scan(...any) error }) (models.Shuttle, error) {
	var s models.Shuttle
	err := row.Scan(&s.ID, &s.Route, &s.Date, &s.Time, &s.Duration, &s.Pickup,
		&s.Seats, &s.Capacity, &s.Price, &s.UpdatedAt)
	return s, err
}

// List returns shuttles sorted by departure date and time.
func (r ShuttleRepository) List(ctx context.Context) ([]models.Shuttle, error) {
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	rows, err := r.db().QueryContext(ctx, `
		SELECT `+shuttleColumns+`
		FROM shuttles
		ORDER BY `+"`date` ASC, `time` ASC"+``)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Shuttle{}
	for rows.Next() {
		s, err := scanShuttle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r ShuttleRepository) GetByID(ctx context.Context, id int64) (models.Shuttle, error) {
	if id <= 0 {
		return models.Shuttle{}, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	s, err := scanShuttle(r.db().QueryRowContext(ctx, `
		SELECT `+shuttleColumns+`
		FROM shuttles
		WHERE id = ? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return s, domain.NotFoundError{Resource: "shuttle", Err: err}
	}
	return s, err
}

func (r ShuttleRepository) Create(ctx context.Context, s models.Shuttle) (models.Shuttle, error) {
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	var res sql.Result
	err := intdb.Retry(ctx, func() error {
		var execErr error
		res, execErr = r.db().ExecContext(ctx, `
			INSERT INTO shuttles (route, `+"`date`, `time`"+`, duration, pickup, seats, capacity, price)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			s.Route, s.Date, s.Time, s.Duration, s.Pickup, s.Seats, s.Seats, s.Price)
		return execErr
	})
	if err != nil {
		return models.Shuttle{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Shuttle{}, err
	}
	return r.GetByID(ctx, id)
}

// Update applies only the fields present in the patch and refreshes
// updated_at. Seats updates here are operator corrections; bookings go
// through the transactional path in BookingRepository instead.
func (r ShuttleRepository) Update(ctx context.Context, id int64, p models.ShuttlePatch) (models.Shuttle, error) {
	if id <= 0 {
		return models.Shuttle{}, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}

	sets := []string{}
	args := []any{}
	if p.Route != nil {
		sets = append(sets, "route = ?")
		args = append(args, *p.Route)
	}
	if p.Date != nil {
		sets = append(sets, "`date` = ?")
		args = append(args, *p.Date)
	}
	if p.Time != nil {
		sets = append(sets, "`time` = ?")
		args = append(args, *p.Time)
	}
	if p.Duration != nil {
		sets = append(sets, "duration = ?")
		args = append(args, *p.Duration)
	}
	if p.Pickup != nil {
		sets = append(sets, "pickup = ?")
		args = append(args, *p.Pickup)
	}
	if p.Seats != nil {
		sets = append(sets, "seats = ?", "capacity = GREATEST(capacity, ?)")
		args = append(args, *p.Seats, *p.Seats)
	}
	if p.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *p.Price)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = NOW()")

	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	args = append(args, id)
	if _, err := r.db().ExecContext(ctx, `UPDATE shuttles SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return models.Shuttle{}, err
	}
	return r.GetByID(ctx, id)
}

func (r ShuttleRepository) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	res, err := r.db().ExecContext(ctx, `DELETE FROM shuttles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "shuttle"}
	}
	return nil
}
