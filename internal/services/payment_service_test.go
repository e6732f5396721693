package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Matuku45/shuttle-booking-system/internal/domain"
	"github.com/Matuku45/shuttle-booking-system/internal/domain/models"
	"github.com/Matuku45/shuttle-booking-system/internal/repositories"
)

func mockTime() time.Time {
	return time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
}

func paymentRow(id int64, bookingID any, amount float64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "passenger_name", "shuttle_id", "booking_id", "amount", "status", "payment_date",
	}).AddRow(id, "Thabo M", 3, bookingID, amount, status, mockTime())
}

func TestCreatePaymentRejectsNonPositiveAmount(t *testing.T) {
	svc := PaymentService{}
	for _, amount := range []float64{0, -50} {
		_, err := svc.Create(context.Background(), models.Payment{
			PassengerName: "Thabo M",
			ShuttleID:     3,
			Amount:        amount,
		})
		if !domain.IsValidation(err) {
			t.Fatalf("amount %v: expected validation error, got %v", amount, err)
		}
	}
}

func TestCreatePaymentRequiresExistingBooking(t *testing.T) {
	db, mock := newMock(t)
	svc := PaymentService{
		PaymentRepo: repositories.PaymentRepository{DB: db},
		BookingRepo: repositories.BookingRepository{DB: db},
	}

	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	bookingID := int64(42)
	_, err := svc.Create(context.Background(), models.Payment{
		PassengerName: "Thabo M",
		ShuttleID:     3,
		BookingID:     &bookingID,
		Amount:        1500,
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCompletedPaymentConfirmsLinkedBooking(t *testing.T) {
	db, mock := newMock(t)
	svc := PaymentService{
		PaymentRepo: repositories.PaymentRepository{DB: db},
		BookingRepo: repositories.BookingRepository{DB: db},
	}

	mock.ExpectQuery("FROM payments WHERE id").
		WithArgs(int64(5)).
		WillReturnRows(paymentRow(5, int64(9), 1500, models.PaymentPending))
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs(models.PaymentCompleted, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM payments WHERE id").
		WithArgs(int64(5)).
		WillReturnRows(paymentRow(5, int64(9), 1500, models.PaymentCompleted))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(models.BookingConfirmed, int64(9), models.BookingPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	status := models.PaymentCompleted
	updated, err := svc.Update(context.Background(), 5, models.PaymentPatch{Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != models.PaymentCompleted {
		t.Fatalf("expected Completed, got %q", updated.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCompletedPaymentToleratesAlreadyConfirmedBooking(t *testing.T) {
	db, mock := newMock(t)
	svc := PaymentService{
		PaymentRepo: repositories.PaymentRepository{DB: db},
		BookingRepo: repositories.BookingRepository{DB: db},
	}

	mock.ExpectQuery("FROM payments WHERE id").
		WithArgs(int64(5)).
		WillReturnRows(paymentRow(5, int64(9), 1500, models.PaymentPending))
	mock.ExpectExec("UPDATE payments SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM payments WHERE id").
		WithArgs(int64(5)).
		WillReturnRows(paymentRow(5, int64(9), 1500, models.PaymentCompleted))
	// guarded confirm misses because the booking moved on already
	mock.ExpectExec("UPDATE bookings SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "passenger_name", "shuttle_id", "origin", "destination",
			"departure_date", "departure_time", "duration", "pickup_window",
			"seats", "seats_left", "price_per_seat", "status", "created_at",
		}).AddRow(9, "Thabo M", 3, "", "", "", "", "", 15, 1, 48, 1500.0, models.BookingConfirmed, mockTime()))

	status := models.PaymentCompleted
	if _, err := svc.Update(context.Background(), 5, models.PaymentPatch{Status: &status}); err != nil {
		t.Fatalf("expected conflict to be tolerated, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdatePaymentUnknownStatusRejected(t *testing.T) {
	svc := PaymentService{}
	bogus := "Maybe"
	_, err := svc.Update(context.Background(), 5, models.PaymentPatch{Status: &bogus})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
