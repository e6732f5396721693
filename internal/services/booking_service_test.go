package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Matuku45/shuttle-booking-system/internal/domain"
	"github.com/Matuku45/shuttle-booking-system/internal/domain/models"
	"github.com/Matuku45/shuttle-booking-system/internal/repositories"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestCreateBookingValidation(t *testing.T) {
	svc := BookingService{}
	cases := []struct {
		name    string
		booking models.Booking
	}{
		{"missing passenger name", models.Booking{ShuttleID: 1, Seats: 1}},
		{"missing shuttle id", models.Booking{PassengerName: "Thabo M", Seats: 1}},
		{"negative seats", models.Booking{PassengerName: "Thabo M", ShuttleID: 1, Seats: -2}},
		{"negative price", models.Booking{PassengerName: "Thabo M", ShuttleID: 1, Seats: 1, PricePerSeat: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.booking); !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateBookingRejectsUnknownStatus(t *testing.T) {
	svc := BookingService{}
	bogus := "Teleported"
	_, err := svc.Update(context.Background(), 1, models.BookingPatch{Status: &bogus})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateBookingBackToPendingIsConflict(t *testing.T) {
	svc := BookingService{}
	pending := models.BookingPending
	_, err := svc.Update(context.Background(), 1, models.BookingPatch{Status: &pending})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateBookingCancelDrivesRefund(t *testing.T) {
	db, mock := newMock(t)
	svc := BookingService{BookingRepo: repositories.BookingRepository{DB: db}}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, seats, shuttle_id FROM bookings").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "seats", "shuttle_id"}).
			AddRow(models.BookingPending, 2, int64(3)))
	mock.ExpectExec("UPDATE bookings SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE shuttles").
		WithArgs(2, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	// field update path falls through to a plain read
	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "passenger_name", "shuttle_id", "origin", "destination",
			"departure_date", "departure_time", "duration", "pickup_window",
			"seats", "seats_left", "price_per_seat", "status", "created_at",
		}).AddRow(7, "Thabo M", 3, "", "", "", "", "", 15, 2, 48, 1500.0, models.BookingCancelled, mockTime()))

	cancelled := models.BookingCancelled
	booking, err := svc.Update(context.Background(), 7, models.BookingPatch{Status: &cancelled})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != models.BookingCancelled {
		t.Fatalf("expected cancelled booking, got %q", booking.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingDefaultsSeatsToOne(t *testing.T) {
	db, mock := newMock(t)
	svc := BookingService{BookingRepo: repositories.BookingRepository{DB: db}}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE shuttles").
		WithArgs(1, int64(3), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT seats, price FROM shuttles").
		WillReturnRows(sqlmock.NewRows([]string{"seats", "price"}).AddRow(49, 1500.0))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "passenger_name", "shuttle_id", "origin", "destination",
			"departure_date", "departure_time", "duration", "pickup_window",
			"seats", "seats_left", "price_per_seat", "status", "created_at",
		}).AddRow(11, "Thabo M", 3, "", "", "", "", "", 15, 1, 49, 1500.0, models.BookingPending, mockTime()))

	booking, err := svc.Create(context.Background(), models.Booking{
		PassengerName: "Thabo M",
		ShuttleID:     3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Seats != 1 {
		t.Fatalf("expected seats defaulted to 1, got %d", booking.Seats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
