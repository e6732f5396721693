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

type ShuttleService struct {
	ShuttleRepo repositories.ShuttleRepository
	RequestID   string
	DB          *sql.DB
}

func (s ShuttleService) repo() repositories.ShuttleRepository {
	if s.ShuttleRepo.DB != nil {
		return s.ShuttleRepo
	}
	return repositories.ShuttleRepository{DB: s.DB}
}

func (s ShuttleService) List(ctx context.Context) ([]models.Shuttle, error) {
	return s.repo().List(ctx)
}

func (s ShuttleService) Get(ctx context.Context, id int64) (models.Shuttle, error) {
	return s.repo().GetByID(ctx, id)
}

func (s ShuttleService) Create(ctx context.Context, sh models.Shuttle) (models.Shuttle, error) {
	sh.Route = strings.TrimSpace(sh.Route)
	if sh.Route == "" {
		return models.Shuttle{}, domain.ValidationError{Field: "route", Msg: "required"}
	}
	if !utils.ValidDate(sh.Date) {
		return models.Shuttle{}, domain.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"}
	}
	if !utils.ValidClock(sh.Time) {
		return models.Shuttle{}, domain.ValidationError{Field: "time", Msg: "expected HH:MM"}
	}
	if sh.Seats < 0 {
		return models.Shuttle{}, domain.ValidationError{Field: "seats", Msg: "must not be negative"}
	}
	if sh.Price < 0 {
		return models.Shuttle{}, domain.ValidationError{Field: "price", Msg: "must not be negative"}
	}

	created, err := s.repo().Create(ctx, sh)
	if err != nil {
		return models.Shuttle{}, err
	}
	utils.LogEvent(s.RequestID, "shuttle", "create", "id="+strconv.FormatInt(created.ID, 10))
	return created, nil
}

func (s ShuttleService) Update(ctx context.Context, id int64, p models.ShuttlePatch) (models.Shuttle, error) {
	if p.Date != nil && !utils.ValidDate(*p.Date) {
		return models.Shuttle{}, domain.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"}
	}
	if p.Time != nil && !utils.ValidClock(*p.Time) {
		return models.Shuttle{}, domain.ValidationError{Field: "time", Msg: "expected HH:MM"}
	}
	if p.Seats != nil && *p.Seats < 0 {
		return models.Shuttle{}, domain.ValidationError{Field: "seats", Msg: "must not be negative"}
	}
	return s.repo().Update(ctx, id, p)
}

func (s ShuttleService) Delete(ctx context.Context, id int64) error {
	if err := s.repo().Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "shuttle", "delete", "id="+strconv.FormatInt(id, 10))
	return nil
}
