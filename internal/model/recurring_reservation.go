package model

import (
	"time"

	"github.com/google/uuid"
)

type RecurringStatus string

const (
	RecurringStatusActive   RecurringStatus = "active"
	RecurringStatusInactive RecurringStatus = "inactive"
)

// Valid проверяет, что статус входит в допустимый набор
func (s RecurringStatus) Valid() bool {
	return s == RecurringStatusActive || s == RecurringStatusInactive
}

// RecurringReservation представляет постоянную еженедельную запись клиента
type RecurringReservation struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Service   string          `json:"service"`
	Weekday   int             `json:"weekday"` // 1 = понедельник, 6 = суббота
	TimeSlot  string          `json:"time_slot"`
	Status    RecurringStatus `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsActive сообщает, занимает ли запись слот каждую неделю
func (r *RecurringReservation) IsActive() bool {
	return r.Status == RecurringStatusActive
}

const (
	MinRecurringWeekday = 1
	MaxRecurringWeekday = 6
)

var weekdayNames = map[int]string{
	0: "Domingo",
	1: "Segunda-feira",
	2: "Terça-feira",
	3: "Quarta-feira",
	4: "Quinta-feira",
	5: "Sexta-feira",
	6: "Sábado",
}

// WeekdayName возвращает название дня недели для сообщений клиентам
func WeekdayName(weekday int) string {
	if name, ok := weekdayNames[weekday]; ok {
		return name
	}
	return ""
}
