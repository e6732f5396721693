package services

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/Matuku45/shuttle-booking-system/internal/domain"
	"github.com/Matuku45/shuttle-booking-system/internal/domain/models"
	"github.com/Matuku45/shuttle-booking-system/internal/repositories"
	"github.com/Matuku45/shuttle-booking-system/internal/utils"
)

// BookingService owns the booking lifecycle: seat reservation on create,
// the status state machine, and the seat refund on cancellation.
type BookingService struct {
	BookingRepo repositories.BookingRepository
	ShuttleRepo repositories.ShuttleRepository
	RequestID   string
	DB          *sql.DB
}

func (s BookingService) bookings() repositories.BookingRepository {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepository{DB: s.DB}
}

func (s BookingService) shuttles() repositories.ShuttleRepository {
	if s.ShuttleRepo.DB != nil {
		return s.ShuttleRepo
	}
	return repositories.ShuttleRepository{DB: s.DB}
}

func (s BookingService) List(ctx context.Context) ([]models.Booking, error) {
	return s.bookings().List(ctx)
}

func (s BookingService) Get(ctx context.Context, id int64) (models.Booking, error) {
	return s.bookings().GetByID(ctx, id)
}

// Create validates the request and reserves seats transactionally.
// Seats defaults to 1 when the caller does not say otherwise.
func (s BookingService) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	b.PassengerName = strings.TrimSpace(b.PassengerName)
	if b.PassengerName == "" {
		return models.Booking{}, domain.ValidationError{Field: "passenger_name", Msg: "required"}
	}
	if b.ShuttleID <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "shuttle_id", Msg: "must be positive"}
	}
	if b.Seats == 0 {
		b.Seats = 1
	}
	if b.Seats < 0 {
		return models.Booking{}, domain.ValidationError{Field: "seats", Msg: "must be at least 1"}
	}
	if b.PricePerSeat < 0 {
		return models.Booking{}, domain.ValidationError{Field: "price_per_seat", Msg: "must not be negative"}
	}
	if b.PickupWindow <= 0 {
		b.PickupWindow = 15
	}

	created, err := s.bookings().Create(ctx, b)
	if err != nil {
		return models.Booking{}, err
	}
	utils.LogEvent(s.RequestID, "booking", "create",
		"id="+strconv.FormatInt(created.ID, 10)+" shuttle_id="+strconv.FormatInt(created.ShuttleID, 10)+" seats="+strconv.Itoa(created.Seats))
	return created, nil
}

// Update applies field changes and drives the status state machine:
// Pending->Confirmed, Pending->Cancelled, Confirmed->Cancelled. Moving to
// Cancelled restores the booking's seats onto the shuttle.
func (s BookingService) Update(ctx context.Context, id int64, p models.BookingPatch) (models.Booking, error) {
	if p.Status != nil {
		target := strings.TrimSpace(*p.Status)
		switch target {
		case models.BookingConfirmed:
			if err := s.bookings().Confirm(ctx, id); err != nil {
				return models.Booking{}, err
			}
			utils.LogEvent(s.RequestID, "booking", "confirm", "id="+strconv.FormatInt(id, 10))
		case models.BookingCancelled:
			if err := s.bookings().Cancel(ctx, id); err != nil {
				return models.Booking{}, err
			}
			utils.LogEvent(s.RequestID, "booking", "cancel", "id="+strconv.FormatInt(id, 10))
		case models.BookingPending:
			return models.Booking{}, domain.ConflictError{Resource: "booking", Msg: "invalid status transition"}
		default:
			return models.Booking{}, domain.ValidationError{Field: "status", Msg: "unknown status " + strconv.Quote(target)}
		}
		p.Status = nil
	}
	return s.bookings().UpdateFields(ctx, id, p)
}

func (s BookingService) Delete(ctx context.Context, id int64) error {
	if err := s.bookings().Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "booking", "delete", "id="+strconv.FormatInt(id, 10))
	return nil
}
