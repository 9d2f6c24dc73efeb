package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/availability"
	"github.com/Freeeeeet/barbershop_booking/internal/messaging"
	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatusUpdate - результат смены статуса с ссылкой для уведомления клиента
type StatusUpdate struct {
	Reservation  *model.Reservation `json:"reservation"`
	WhatsAppLink string             `json:"whatsapp_link,omitempty"`
}

type ReservationService struct {
	store      ReservationStore
	reconciler *availability.Reconciler
	shop       messaging.Shop
	logger     *zap.Logger
}

func NewReservationService(
	store ReservationStore,
	reconciler *availability.Reconciler,
	shop messaging.Shop,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		store:      store,
		reconciler: reconciler,
		shop:       shop,
		logger:     logger,
	}
}

func reservationsKey(date time.Time) string {
	return "reservations_" + model.DateKey(date)
}

func validateReservation(res *model.Reservation) error {
	res.Name = strings.TrimSpace(res.Name)
	res.Phone = strings.TrimSpace(res.Phone)

	if res.Name == "" {
		return &model.ValidationError{Field: "name", Reason: "name is required"}
	}
	if res.Phone == "" {
		return &model.ValidationError{Field: "phone", Reason: "phone is required"}
	}
	if res.Service == "" {
		return &model.ValidationError{Field: "service", Reason: "service is required"}
	}
	if res.Date.IsZero() {
		return &model.ValidationError{Field: "date", Reason: "date is required"}
	}
	if err := model.ValidateTimeSlot(res.TimeSlot); err != nil {
		return err
	}
	if res.Status == "" {
		res.Status = model.ReservationStatusPending
	}
	if !res.Status.Valid() {
		return &model.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", res.Status)}
	}
	return nil
}

// Create сохраняет разовую запись, если слот не занят другой неотменённой записью
func (s *ReservationService) Create(ctx context.Context, res *model.Reservation) error {
	if err := validateReservation(res); err != nil {
		return err
	}

	// Проверка по свежему запросу, без кеша
	taken, err := s.store.HasActiveAt(ctx, res.Date, res.TimeSlot)
	if err != nil {
		return err
	}
	if taken {
		return model.ErrSlotConflict
	}

	if err := s.store.Create(ctx, res); err != nil {
		return err
	}

	s.reconciler.Invalidate(ctx, res.Date, res.TimeSlot, res.Weekday())

	s.logger.Info("Reservation created",
		zap.String("reservation_id", res.ID.String()),
		zap.String("date", model.DateKey(res.Date)),
		zap.String("time_slot", res.TimeSlot),
		zap.String("status", string(res.Status)),
	)
	return nil
}

// StaffCreate создаёт запись из панели барбера, сразу подтверждённую
func (s *ReservationService) StaffCreate(ctx context.Context, res *model.Reservation) error {
	res.Status = model.ReservationStatusConfirmed
	return s.Create(ctx, res)
}

// Get возвращает запись по ID
func (s *ReservationService) Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	res, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, model.ErrNotFound
	}
	return res, nil
}

// List возвращает все записи
func (s *ReservationService) List(ctx context.Context) ([]*model.Reservation, error) {
	return s.store.List(ctx)
}

// ListByDate возвращает записи на дату, кешируя ответ до следующей инвалидации
func (s *ReservationService) ListByDate(ctx context.Context, date time.Time) ([]*model.Reservation, error) {
	key := reservationsKey(date)
	if cached, ok := s.reconciler.Cache().Get(key); ok {
		if list, ok := cached.([]*model.Reservation); ok {
			return list, nil
		}
	}

	list, err := s.store.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	s.reconciler.Cache().Set(key, list, 0)
	return list, nil
}

// UpdateStatus подтверждает или отменяет запись
func (s *ReservationService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus) (*StatusUpdate, error) {
	if !status.Valid() {
		return nil, &model.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", status)}
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Отменённая запись слот не держит, за время отмены его могли занять
	if !current.IsActive() && status != model.ReservationStatusCancelled {
		taken, err := s.store.HasActiveAt(ctx, current.Date, current.TimeSlot)
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

	s.reconciler.Invalidate(ctx, updated.Date, updated.TimeSlot, updated.Weekday())

	s.logger.Info("Reservation status updated",
		zap.String("reservation_id", id.String()),
		zap.String("from", string(current.Status)),
		zap.String("to", string(status)),
	)

	return &StatusUpdate{
		Reservation:  updated,
		WhatsAppLink: s.shop.StatusLink(updated),
	}, nil
}

// Delete удаляет запись и освобождает слот
func (s *ReservationService) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return model.ErrNotFound
	}

	s.reconciler.Invalidate(ctx, res.Date, res.TimeSlot, res.Weekday())

	s.logger.Info("Reservation deleted", zap.String("reservation_id", id.String()))
	return nil
}
