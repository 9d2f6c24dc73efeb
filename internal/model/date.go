package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout - формат календарной даты в API и ключах кеша
const DateLayout = "2006-01-02"

// DisplayDateLayout - формат даты в сообщениях
const DisplayDateLayout = "02/01/2006"

// ParseDate разбирает календарную дату. Допускается хвост времени
// ("2025-03-26T00:00:00"), он отбрасывается.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("invalid date %q, want YYYY-MM-DD", s)}
	}
	return d, nil
}

// DateOf обрезает момент времени до календарной даты в указанной зоне
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey возвращает строковый ключ даты
func DateKey(date time.Time) string {
	return date.Format(DateLayout)
}

// Weekday возвращает день недели даты (0 = воскресенье, 3 = среда)
func Weekday(date time.Time) int {
	return int(date.Weekday())
}

// ValidateTimeSlot проверяет формат "HH:MM"
func ValidateTimeSlot(slot string) error {
	if len(slot) != 5 {
		return &ValidationError{Field: "time_slot", Reason: fmt.Sprintf("invalid time slot %q, want HH:MM", slot)}
	}
	if _, err := time.Parse("15:04", slot); err != nil {
		return &ValidationError{Field: "time_slot", Reason: fmt.Sprintf("invalid time slot %q, want HH:MM", slot)}
	}
	return nil
}
