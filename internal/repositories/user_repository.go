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

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

// EnsureTable bootstraps the users table on startup.
func (r UserRepository) EnsureTable(ctx context.Context) error {
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	ddl := `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(100) NOT NULL,
	email VARCHAR(100) NOT NULL,
	password_hash VARCHAR(100) NOT NULL,
	role VARCHAR(50) NOT NULL DEFAULT 'user',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_users_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := r.db().ExecContext(ctx, ddl)
	return err
}

func (r UserRepository) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	rows, err := r.db().QueryContext(ctx, `
		SELECT id, name, email, role, created_at
		FROM users
		ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	if id <= 0 {
		return u, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	err := r.db().QueryRowContext(ctx, `
		SELECT id, name, email, role, created_at
		FROM users
		WHERE id = ? LIMIT 1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}

// GetByEmail also loads the stored hash; only the auth service uses it.
func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	email = strings.TrimSpace(email)
	if email == "" {
		return u, domain.ValidationError{Field: "email", Msg: "required"}
	}
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	err := r.db().QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE email = ? LIMIT 1`, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}

// Create inserts a user. The caller supplies an already-hashed password.
func (r UserRepository) Create(ctx context.Context, u models.User) (models.User, error) {
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	var res sql.Result
	err := intdb.Retry(ctx, func() error {
		var execErr error
		res, execErr = r.db().ExecContext(ctx, `
			INSERT INTO users (name, email, password_hash, role)
			VALUES (?, ?, ?, ?)`,
			u.Name, u.Email, u.PasswordHash, u.Role)
		return execErr
	})
	if err != nil {
		if intdb.IsDuplicate(err) {
			return models.User{}, domain.ConflictError{Resource: "user", Msg: "email already exists", Err: err}
		}
		return models.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	return r.GetByID(ctx, id)
}

// Update applies only the fields present in the patch.
func (r UserRepository) Update(ctx context.Context, id int64, p models.UserPatch) (models.User, error) {
	if id <= 0 {
		return models.User{}, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}

	sets := []string{}
	args := []any{}
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *p.Email)
	}
	if p.Password != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *p.Password)
	}
	if p.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, *p.Role)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	args = append(args, id)
	res, err := r.db().ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if intdb.IsDuplicate(err) {
			return models.User{}, domain.ConflictError{Resource: "user", Msg: "email already exists", Err: err}
		}
		return models.User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Could be a no-op update of identical values; confirm the row exists.
		return r.GetByID(ctx, id)
	}
	return r.GetByID(ctx, id)
}

func (r UserRepository) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	ctx, cancel := intdb.WithTimeout(ctx)
	defer cancel()

	res, err := r.db().ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "user"}
	}
	return nil
}
