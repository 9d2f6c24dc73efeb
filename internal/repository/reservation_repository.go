package repository

import (
	"context"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/Freeeeeet/barbershop_booking/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reservationColumns = `id, name, phone, service, date, time_slot, status, created_at`

// rowScanner - общее у pgx.Row и pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// ReservationRepository управляет разовыми записями в базе данных
type ReservationRepository struct {
	*base.Repository
}

// NewReservationRepository создаёт новый репозиторий
func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{Repository: base.NewRepository(pool)}
}

func scanReservation(row rowScanner) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(
		&res.ID,
		&res.Name,
		&res.Phone,
		&res.Service,
		&res.Date,
		&res.TimeSlot,
		&res.Status,
		&res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func collectReservations(rows pgx.Rows) ([]*model.Reservation, error) {
	defer rows.Close()

	var reservations []*model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

// Create создаёт запись. Занятый слот (уникальный индекс) даёт model.ErrSlotConflict.
func (r *ReservationRepository) Create(ctx context.Context, res *model.Reservation) error {
	query := `
		INSERT INTO reservations (name, phone, service, date, time_slot, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		res.Name,
		res.Phone,
		res.Service,
		res.Date,
		res.TimeSlot,
		res.Status,
	).Scan(&res.ID, &res.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return model.ErrSlotConflict
		}
		return model.NewStoreError("create reservation", err)
	}

	return nil
}

// GetByID получает запись по ID
func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	res, err := scanReservation(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, model.NewStoreError("get reservation by id", err)
	}

	return res, nil
}

// List возвращает все записи по дате и времени
func (r *ReservationRepository) List(ctx context.Context) ([]*model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY date, time_slot`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, model.NewStoreError("list reservations", err)
	}

	reservations, err := collectReservations(rows)
	if err != nil {
		return nil, model.NewStoreError("scan reservations", err)
	}
	return reservations, nil
}

// ListByDate возвращает записи на дату, включая отменённые
func (r *ReservationRepository) ListByDate(ctx context.Context, date time.Time) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE date = $1
		ORDER BY time_slot
	`

	rows, err := r.Query(ctx, query, date)
	if err != nil {
		return nil, model.NewStoreError("list reservations by date", err)
	}

	reservations, err := collectReservations(rows)
	if err != nil {
		return nil, model.NewStoreError("scan reservations", err)
	}
	return reservations, nil
}

// ListActiveByDate возвращает неотменённые записи на дату
func (r *ReservationRepository) ListActiveByDate(ctx context.Context, date time.Time) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE date = $1 AND status <> 'cancelled'
		ORDER BY time_slot
	`

	rows, err := r.Query(ctx, query, date)
	if err != nil {
		return nil, model.NewStoreError("list active reservations", err)
	}

	reservations, err := collectReservations(rows)
	if err != nil {
		return nil, model.NewStoreError("scan reservations", err)
	}
	return reservations, nil
}

// HasActiveAt проверяет, есть ли неотменённая запись на дату и время
func (r *ReservationRepository) HasActiveAt(ctx context.Context, date time.Time, slot string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE date = $1 AND time_slot = $2 AND status <> 'cancelled'
		)
	`

	var exists bool
	if err := r.QueryRow(ctx, query, date, slot).Scan(&exists); err != nil {
		return false, model.NewStoreError("check reservation slot", err)
	}
	return exists, nil
}

// ListUpcoming возвращает записи начиная с даты
func (r *ReservationRepository) ListUpcoming(ctx context.Context, from time.Time) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE date >= $1
		ORDER BY date, time_slot
	`

	rows, err := r.Query(ctx, query, from)
	if err != nil {
		return nil, model.NewStoreError("list upcoming reservations", err)
	}

	reservations, err := collectReservations(rows)
	if err != nil {
		return nil, model.NewStoreError("scan reservations", err)
	}
	return reservations, nil
}

// UpdateStatus меняет статус и возвращает обновлённую запись (nil, если её нет)
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus) (*model.Reservation, error) {
	query := `
		UPDATE reservations
		SET status = $2
		WHERE id = $1
		RETURNING ` + reservationColumns

	res, err := scanReservation(r.QueryRow(ctx, query, id, status))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		if base.IsUniqueViolation(err) {
			return nil, model.ErrSlotConflict
		}
		return nil, model.NewStoreError("update reservation status", err)
	}

	return res, nil
}

// Delete удаляет запись, возвращает false если её не было
func (r *ReservationRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := r.ExecAffected(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return false, model.NewStoreError("delete reservation", err)
	}
	return n > 0, nil
}

// DeleteCancelled удаляет все отменённые записи
func (r *ReservationRepository) DeleteCancelled(ctx context.Context) (int64, error) {
	n, err := r.ExecAffected(ctx, `DELETE FROM reservations WHERE status = 'cancelled'`)
	if err != nil {
		return 0, model.NewStoreError("delete cancelled reservations", err)
	}
	return n, nil
}

// DeleteBefore удаляет записи с датой раньше указанной
func (r *ReservationRepository) DeleteBefore(ctx context.Context, date time.Time) (int64, error) {
	n, err := r.ExecAffected(ctx, `DELETE FROM reservations WHERE date < $1`, date)
	if err != nil {
		return 0, model.NewStoreError("delete past reservations", err)
	}
	return n, nil
}
