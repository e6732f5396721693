package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/Matuku45/shuttle-booking-system/internal/config"
)

// WithTimeout bounds a store call with the configured timeout.
func WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, config.StoreTimeout())
}

// IsDuplicate reports a unique-constraint violation (MySQL error 1062).
// Duplicates are terminal and must never be retried.
func IsDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// IsTransient reports errors worth one more attempt: a dead connection or
// a lock wait timeout. Everything else fails immediately.
func IsTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		// 1205 lock wait timeout, 1213 deadlock victim
		return me.Number == 1205 || me.Number == 1213
	}
	return false
}

const retryAttempts = 3

// Retry runs fn with bounded backoff on transient store errors.
func Retry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		err = fn()
		if err == nil || !IsTransient(err) {
			return err
		}
		if attempt == retryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
		}
	}
	return err
}
