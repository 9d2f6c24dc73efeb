package repository

import (
	"context"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/Freeeeeet/barbershop_booking/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const recurringColumns = `id, name, phone, service, weekday, time_slot, status, created_at`

// RecurringRepository управляет постоянными записями в базе данных
type RecurringRepository struct {
	*base.Repository
}

// NewRecurringRepository создаёт новый репозиторий
func NewRecurringRepository(pool *pgxpool.Pool) *RecurringRepository {
	return &RecurringRepository{Repository: base.NewRepository(pool)}
}

func scanRecurring(row rowScanner) (*model.RecurringReservation, error) {
	var rec model.RecurringReservation
	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Phone,
		&rec.Service,
		&rec.Weekday,
		&rec.TimeSlot,
		&rec.Status,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func collectRecurring(rows pgx.Rows) ([]*model.RecurringReservation, error) {
	defer rows.Close()

	var items []*model.RecurringReservation
	for rows.Next() {
		rec, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}

// Create создаёт постоянную запись. Занятый слот даёт model.ErrSlotConflict.
func (r *RecurringRepository) Create(ctx context.Context, rec *model.RecurringReservation) error {
	query := `
		INSERT INTO recurring_reservations (name, phone, service, weekday, time_slot, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		rec.Name,
		rec.Phone,
		rec.Service,
		rec.Weekday,
		rec.TimeSlot,
		rec.Status,
	).Scan(&rec.ID, &rec.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return model.ErrSlotConflict
		}
		return model.NewStoreError("create recurring reservation", err)
	}

	return nil
}

// GetByID получает постоянную запись по ID
func (r *RecurringRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RecurringReservation, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_reservations WHERE id = $1`

	rec, err := scanRecurring(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, model.NewStoreError("get recurring reservation by id", err)
	}

	return rec, nil
}

// List возвращает все постоянные записи, новые первыми
func (r *RecurringRepository) List(ctx context.Context) ([]*model.RecurringReservation, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_reservations ORDER BY created_at DESC`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, model.NewStoreError("list recurring reservations", err)
	}

	items, err := collectRecurring(rows)
	if err != nil {
		return nil, model.NewStoreError("scan recurring reservations", err)
	}
	return items, nil
}

// ListActiveByWeekday возвращает активные постоянные записи на день недели
func (r *RecurringRepository) ListActiveByWeekday(ctx context.Context, weekday int) ([]*model.RecurringReservation, error) {
	query := `
		SELECT ` + recurringColumns + `
		FROM recurring_reservations
		WHERE weekday = $1 AND status = 'active'
		ORDER BY time_slot
	`

	rows, err := r.Query(ctx, query, weekday)
	if err != nil {
		return nil, model.NewStoreError("list active recurring reservations", err)
	}

	items, err := collectRecurring(rows)
	if err != nil {
		return nil, model.NewStoreError("scan recurring reservations", err)
	}
	return items, nil
}

// HasActiveAt проверяет, есть ли активная постоянная запись на день недели и время
func (r *RecurringRepository) HasActiveAt(ctx context.Context, weekday int, slot string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM recurring_reservations
			WHERE weekday = $1 AND time_slot = $2 AND status = 'active'
		)
	`

	var exists bool
	if err := r.QueryRow(ctx, query, weekday, slot).Scan(&exists); err != nil {
		return false, model.NewStoreError("check recurring slot", err)
	}
	return exists, nil
}

// UpdateStatus меняет статус и возвращает обновлённую запись (nil, если её нет)
func (r *RecurringRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.RecurringStatus) (*model.RecurringReservation, error) {
	query := `
		UPDATE recurring_reservations
		SET status = $2
		WHERE id = $1
		RETURNING ` + recurringColumns

	rec, err := scanRecurring(r.QueryRow(ctx, query, id, status))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		if base.IsUniqueViolation(err) {
			return nil, model.ErrSlotConflict
		}
		return nil, model.NewStoreError("update recurring status", err)
	}

	return rec, nil
}

// Delete удаляет постоянную запись, возвращает false если её не было
func (r *RecurringRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := r.ExecAffected(ctx, `DELETE FROM recurring_reservations WHERE id = $1`, id)
	if err != nil {
		return false, model.NewStoreError("delete recurring reservation", err)
	}
	return n > 0, nil
}
