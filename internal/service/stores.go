package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/google/uuid"
)

// ReservationStore - хранилище разовых записей
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	List(ctx context.Context) ([]*model.Reservation, error)
	ListByDate(ctx context.Context, date time.Time) ([]*model.Reservation, error)
	HasActiveAt(ctx context.Context, date time.Time, slot string) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus) (*model.Reservation, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// RecurringStore - хранилище постоянных записей
type RecurringStore interface {
	Create(ctx context.Context, rec *model.RecurringReservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.RecurringReservation, error)
	List(ctx context.Context) ([]*model.RecurringReservation, error)
	HasActiveAt(ctx context.Context, weekday int, slot string) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.RecurringStatus) (*model.RecurringReservation, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// CleanupStore - массовое удаление записей
type CleanupStore interface {
	DeleteCancelled(ctx context.Context) (int64, error)
	DeleteBefore(ctx context.Context, date time.Time) (int64, error)
}

// Notifier сообщает барберу о новых записях
type Notifier interface {
	NewReservation(ctx context.Context, res *model.Reservation) error
}

// NopNotifier ничего не отправляет
type NopNotifier struct{}

func (NopNotifier) NewReservation(context.Context, *model.Reservation) error {
	return nil
}
