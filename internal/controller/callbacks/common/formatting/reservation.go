package formatting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
)

// FormatNewReservation - уведомление барберу о новой записи
func FormatNewReservation(res *model.Reservation) string {
	return fmt.Sprintf(
		"💈 Novo agendamento!\n\n"+
			"👤 %s\n"+
			"📞 %s\n"+
			"✂️ %s\n"+
			"📅 %s às %s",
		res.Name, res.Phone, res.Service, FormatDateWithWeekday(res.Date), res.TimeSlot,
	)
}

// FormatStatusChange - текст после нажатия Confirmar/Cancelar
func FormatStatusChange(res *model.Reservation) string {
	display := GetStatusDisplay(res.Status)
	return fmt.Sprintf("%s %s: %s, %s às %s",
		display.Emoji, display.Text, res.Name, FormatDate(res.Date), res.TimeSlot)
}

// FormatAgenda - записи и постоянные клиенты дня, по времени
func FormatAgenda(date time.Time, reservations []*model.Reservation, recurring []*model.RecurringReservation) string {
	type line struct {
		slot string
		text string
	}

	lines := make([]line, 0, len(reservations)+len(recurring))
	for _, res := range reservations {
		display := GetStatusDisplay(res.Status)
		lines = append(lines, line{res.TimeSlot, fmt.Sprintf("%s %s - %s (%s) %s", display.Emoji, res.TimeSlot, res.Name, res.Service, res.Phone)})
	}
	for _, rec := range recurring {
		lines = append(lines, line{rec.TimeSlot, fmt.Sprintf("🔁 %s - %s (%s) %s", rec.TimeSlot, rec.Name, rec.Service, rec.Phone)})
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].slot < lines[j].slot })

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 Agenda de %s\n\n", FormatDateWithWeekday(date))
	if len(lines) == 0 {
		sb.WriteString("Nenhum agendamento.")
		return sb.String()
	}
	for i, l := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.text)
	}
	return sb.String()
}

// FormatFreeSlots - список свободных слотов дня
func FormatFreeSlots(date time.Time, slots []string) string {
	if len(slots) == 0 {
		return fmt.Sprintf("🚫 Nenhum horário livre em %s.", FormatDateWithWeekday(date))
	}
	return fmt.Sprintf("🟢 Horários livres em %s:\n\n%s", FormatDateWithWeekday(date), strings.Join(slots, "  "))
}
