package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/availability"
	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RecurringService struct {
	store      RecurringStore
	reconciler *availability.Reconciler
	loc        *time.Location
	now        func() time.Time
	logger     *zap.Logger
}

func NewRecurringService(
	store RecurringStore,
	reconciler *availability.Reconciler,
	loc *time.Location,
	logger *zap.Logger,
) *RecurringService {
	if loc == nil {
		loc = time.UTC
	}
	return &RecurringService{
		store:      store,
		reconciler: reconciler,
		loc:        loc,
		now:        time.Now,
		logger:     logger,
	}
}

func validateRecurring(rec *model.RecurringReservation) error {
	rec.Name = strings.TrimSpace(rec.Name)
	rec.Phone = strings.TrimSpace(rec.Phone)

	if rec.Name == "" {
		return &model.ValidationError{Field: "name", Reason: "name is required"}
	}
	if rec.Phone == "" {
		return &model.ValidationError{Field: "phone", Reason: "phone is required"}
	}
	if rec.Service == "" {
		return &model.ValidationError{Field: "service", Reason: "service is required"}
	}
	if rec.Weekday < model.MinRecurringWeekday || rec.Weekday > model.MaxRecurringWeekday {
		return &model.ValidationError{Field: "weekday", Reason: fmt.Sprintf("weekday must be between %d and %d", model.MinRecurringWeekday, model.MaxRecurringWeekday)}
	}
	if err := model.ValidateTimeSlot(rec.TimeSlot); err != nil {
		return err
	}
	if rec.Status == "" {
		rec.Status = model.RecurringStatusActive
	}
	if !rec.Status.Valid() {
		return &model.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", rec.Status)}
	}
	return nil
}

// nextDate возвращает ближайшую дату (не раньше сегодня) с указанным днём недели
func (s *RecurringService) nextDate(weekday int) time.Time {
	today := model.DateOf(s.now(), s.loc)
	shift := (weekday - model.Weekday(today) + 7) % 7
	return today.AddDate(0, 0, shift)
}

func (s *RecurringService) invalidate(ctx context.Context, rec *model.RecurringReservation) {
	s.reconciler.Invalidate(ctx, s.nextDate(rec.Weekday), rec.TimeSlot, rec.Weekday)
}

// List возвращает все постоянные записи
func (s *RecurringService) List(ctx context.Context) ([]*model.RecurringReservation, error) {
	return s.store.List(ctx)
}

// Create сохраняет постоянную запись, если слот дня недели свободен
func (s *RecurringService) Create(ctx context.Context, rec *model.RecurringReservation) error {
	if err := validateRecurring(rec); err != nil {
		return err
	}

	if rec.IsActive() {
		taken, err := s.store.HasActiveAt(ctx, rec.Weekday, rec.TimeSlot)
		if err != nil {
			return err
		}
		if taken {
			return model.ErrSlotConflict
		}
	}

	if err := s.store.Create(ctx, rec); err != nil {
		return err
	}

	s.invalidate(ctx, rec)

	s.logger.Info("Recurring reservation created",
		zap.String("recurring_id", rec.ID.String()),
		zap.Int("weekday", rec.Weekday),
		zap.String("time_slot", rec.TimeSlot),
	)
	return nil
}

// SetStatus включает или выключает постоянную запись
func (s *RecurringService) SetStatus(ctx context.Context, id uuid.UUID, status model.RecurringStatus) (*model.RecurringReservation, error) {
	if !status.Valid() {
		return nil, &model.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", status)}
	}

	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, model.ErrNotFound
	}

	if !current.IsActive() && status == model.RecurringStatusActive {
		taken, err := s.store.HasActiveAt(ctx, current.Weekday, current.TimeSlot)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, model.ErrSlotConflict
		}
	}

	updated, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, model.ErrNotFound
	}

	s.invalidate(ctx, updated)

	s.logger.Info("Recurring reservation status updated",
		zap.String("recurring_id", id.String()),
		zap.String("status", string(status)),
	)
	return updated, nil
}

// Delete удаляет постоянную запись
func (s *RecurringService) Delete(ctx context.Context, id uuid.UUID) error {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return model.ErrNotFound
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return model.ErrNotFound
	}

	s.invalidate(ctx, current)

	s.logger.Info("Recurring reservation deleted", zap.String("recurring_id", id.String()))
	return nil
}
