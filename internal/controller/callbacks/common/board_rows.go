package common

import (
	"github.com/Freeeeeet/barbershop_booking/internal/model"
)

// BuildBoardRows раскладывает записи дня по слотам каталога.
// Слот, которого нет в free и который никем не занят, считается удержанным
// клиентом в процессе записи. На закрытую дату (closed) такие слоты
// помечаются закрытыми, free не учитывается.
func BuildBoardRows(
	catalog []string,
	reservations []*model.Reservation,
	recurring []*model.RecurringReservation,
	free []string,
	closed bool,
) []BoardRow {
	bySlot := make(map[string]BoardRow, len(reservations)+len(recurring))
	for _, rec := range recurring {
		if !rec.IsActive() {
			continue
		}
		bySlot[rec.TimeSlot] = BoardRow{TimeSlot: rec.TimeSlot, State: SlotRecurring, Label: rec.Name}
	}
	for _, res := range reservations {
		if !res.IsActive() {
			continue
		}
		state := SlotPending
		if res.Status == model.ReservationStatusConfirmed {
			state = SlotConfirmed
		}
		bySlot[res.TimeSlot] = BoardRow{TimeSlot: res.TimeSlot, State: state, Label: res.Name + " - " + res.Service}
	}

	freeSet := make(map[string]struct{}, len(free))
	for _, slot := range free {
		freeSet[slot] = struct{}{}
	}

	rows := make([]BoardRow, 0, len(catalog))
	for _, slot := range catalog {
		if row, ok := bySlot[slot]; ok {
			rows = append(rows, row)
			continue
		}
		if closed {
			rows = append(rows, BoardRow{TimeSlot: slot, State: SlotClosed})
			continue
		}
		if _, ok := freeSet[slot]; ok {
			rows = append(rows, BoardRow{TimeSlot: slot, State: SlotFree})
			continue
		}
		rows = append(rows, BoardRow{TimeSlot: slot, State: SlotHeld})
	}
	return rows
}
