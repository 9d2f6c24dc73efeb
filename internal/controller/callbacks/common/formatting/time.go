package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
)

// FormatDate форматирует дату как dd/mm/yyyy
func FormatDate(date time.Time) string {
	return date.Format(model.DisplayDateLayout)
}

// FormatDateWithWeekday форматирует дату с днём недели: "Quarta-feira, 26/03/2025"
func FormatDateWithWeekday(date time.Time) string {
	return fmt.Sprintf("%s, %s", model.WeekdayName(model.Weekday(date)), FormatDate(date))
}

// ParseCommandDate разбирает аргумент команды в формате dd/mm/yyyy.
// Пустой аргумент означает "сегодня".
func ParseCommandDate(arg string, today time.Time) (time.Time, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return today, nil
	}
	date, err := time.Parse(model.DisplayDateLayout, arg)
	if err != nil {
		return time.Time{}, &model.ValidationError{Field: "date", Reason: fmt.Sprintf("data inválida %q, use dd/mm/aaaa", arg)}
	}
	return date, nil
}

// CommandArgs возвращает текст после команды: "/agenda 26/03/2025" -> "26/03/2025"
func CommandArgs(text string) string {
	text = strings.TrimSpace(text)
	i := strings.IndexAny(text, " \t")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(text[i:])
}
