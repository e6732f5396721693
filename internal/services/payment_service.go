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

// PaymentService owns payment records and the cross-entity rule that a
// completed payment confirms its linked booking.
type PaymentService struct {
	PaymentRepo repositories.PaymentRepository
	BookingRepo repositories.BookingRepository
	RequestID   string
	DB          *sql.DB
}

func (s PaymentService) payments() repositories.PaymentRepository {
	if s.PaymentRepo.DB != nil {
		return s.PaymentRepo
	}
	return repositories.PaymentRepository{DB: s.DB}
}

func (s PaymentService) bookings() repositories.BookingRepository {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepository{DB: s.DB}
}

func (s PaymentService) List(ctx context.Context) ([]models.Payment, error) {
	return s.payments().List(ctx)
}

func (s PaymentService) Get(ctx context.Context, id int64) (models.Payment, error) {
	return s.payments().GetByID(ctx, id)
}

// Create inserts a Pending payment. A supplied booking link must resolve,
// but the link stays advisory: the booking itself is untouched.
func (s PaymentService) Create(ctx context.Context, p models.Payment) (models.Payment, error) {
	p.PassengerName = strings.TrimSpace(p.PassengerName)
	if p.PassengerName == "" {
		return models.Payment{}, domain.ValidationError{Field: "passenger_name", Msg: "required"}
	}
	if p.ShuttleID <= 0 {
		return models.Payment{}, domain.ValidationError{Field: "shuttle_id", Msg: "must be positive"}
	}
	if p.Amount <= 0 {
		return models.Payment{}, domain.ValidationError{Field: "amount", Msg: "must be greater than zero"}
	}
	if p.BookingID != nil {
		if _, err := s.bookings().GetByID(ctx, *p.BookingID); err != nil {
			return models.Payment{}, err
		}
	}
	p.Status = models.PaymentPending

	created, err := s.payments().Create(ctx, p)
	if err != nil {
		return models.Payment{}, err
	}
	utils.LogEvent(s.RequestID, "payment", "create", "id="+strconv.FormatInt(created.ID, 10))
	return created, nil
}

// Update patches amount/status. Moving to Completed confirms the linked
// booking; a booking already past Pending only logs a warning so the
// payment update itself still lands.
func (s PaymentService) Update(ctx context.Context, id int64, p models.PaymentPatch) (models.Payment, error) {
	if p.Amount != nil && *p.Amount <= 0 {
		return models.Payment{}, domain.ValidationError{Field: "amount", Msg: "must be greater than zero"}
	}
	if p.Status != nil && !models.KnownPaymentStatus(*p.Status) {
		return models.Payment{}, domain.ValidationError{Field: "status", Msg: "unknown status " + strconv.Quote(*p.Status)}
	}

	existing, err := s.payments().GetByID(ctx, id)
	if err != nil {
		return models.Payment{}, err
	}

	updated, err := s.payments().Update(ctx, id, p)
	if err != nil {
		return models.Payment{}, err
	}

	if p.Status != nil && *p.Status == models.PaymentCompleted &&
		existing.Status != models.PaymentCompleted && updated.BookingID != nil {
		if err := s.bookings().Confirm(ctx, *updated.BookingID); err != nil {
			if !domain.IsConflict(err) {
				return models.Payment{}, err
			}
			utils.LogEvent(s.RequestID, "payment", "update",
				"booking "+strconv.FormatInt(*updated.BookingID, 10)+" not confirmable: "+err.Error())
		} else {
			utils.LogEvent(s.RequestID, "payment", "update",
				"confirmed booking "+strconv.FormatInt(*updated.BookingID, 10))
		}
	}
	return updated, nil
}

func (s PaymentService) Delete(ctx context.Context, id int64) error {
	if err := s.payments().Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "payment", "delete", "id="+strconv.FormatInt(id, 10))
	return nil
}
