package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Matuku45/shuttle-booking-system/internal/domain"
	"github.com/Matuku45/shuttle-booking-system/internal/domain/models"
)

func shuttleRow(id int64, seats int, price float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "route", "date", "time", "duration", "pickup",
		"seats", "capacity", "price", "updated_at",
	}).AddRow(id, "Johannesburg to Cape Town", "2025-10-01", "08:00", "12 hours", "Sandton",
		seats, 50, price, time.Now())
}

func TestShuttleUpdateAppliesOnlyPresentFields(t *testing.T) {
	db, mock := newMock(t)
	repo := ShuttleRepository{DB: db}

	price := 1200.0
	mock.ExpectExec("UPDATE shuttles SET price").
		WithArgs(price, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM shuttles").
		WithArgs(int64(1)).
		WillReturnRows(shuttleRow(1, 50, price))

	updated, err := repo.Update(context.Background(), 1, models.ShuttlePatch{Price: &price})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Price != price {
		t.Fatalf("price not applied, got %v", updated.Price)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestShuttleUpdateEmptyPatchOnlyReadsRow(t *testing.T) {
	db, mock := newMock(t)
	repo := ShuttleRepository{DB: db}

	mock.ExpectQuery("FROM shuttles").
		WithArgs(int64(1)).
		WillReturnRows(shuttleRow(1, 50, 1500.0))

	updated, err := repo.Update(context.Background(), 1, models.ShuttlePatch{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Price != 1500.0 {
		t.Fatalf("expected stored price untouched, got %v", updated.Price)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestShuttleListOrderedByDateTime(t *testing.T) {
	db, mock := newMock(t)
	repo := ShuttleRepository{DB: db}

	rows := shuttleRow(1, 50, 1500.0).
		AddRow(2, "Cape Town to Durban", "2025-10-02", "10:00", "10 hours", "Cape Town Central",
			40, 40, 1200.0, time.Now())
	mock.ExpectQuery("ORDER BY `date` ASC, `time` ASC").WillReturnRows(rows)

	shuttles, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shuttles) != 2 {
		t.Fatalf("expected 2 shuttles, got %d", len(shuttles))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestShuttleDeleteMissingRowIsNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := ShuttleRepository{DB: db}

	mock.ExpectExec("DELETE FROM shuttles").
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 9)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
