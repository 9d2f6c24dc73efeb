package model

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"   // Ожидает подтверждения барбера
	ReservationStatusConfirmed ReservationStatus = "confirmed" // Подтверждено
	ReservationStatusCancelled ReservationStatus = "cancelled" // Отменено, слот свободен
)

// Valid проверяет, что статус входит в допустимый набор
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCancelled:
		return true
	}
	return false
}

// Reservation - разовая запись на конкретную дату и время
type Reservation struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Phone     string            `json:"phone"`
	Service   string            `json:"service"`
	Date      time.Time         `json:"date"`      // только дата, 00:00 UTC
	TimeSlot  string            `json:"time_slot"` // "HH:MM" из каталога
	Status    ReservationStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// IsActive сообщает, занимает ли запись слот (всё, кроме отменённых)
func (r *Reservation) IsActive() bool {
	return r.Status != ReservationStatusCancelled
}

// Weekday возвращает день недели записи (0 = воскресенье)
func (r *Reservation) Weekday() int {
	return Weekday(r.Date)
}
