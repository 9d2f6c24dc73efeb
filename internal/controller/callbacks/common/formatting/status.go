package formatting

import "github.com/Freeeeeet/barbershop_booking/internal/model"

// StatusDisplay представляет отображение статуса записи
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetStatusDisplay возвращает emoji и текст для статуса записи
func GetStatusDisplay(status model.ReservationStatus) StatusDisplay {
	displays := map[model.ReservationStatus]StatusDisplay{
		model.ReservationStatusPending:   {"⏳", "Pendente"},
		model.ReservationStatusConfirmed: {"✅", "Confirmado"},
		model.ReservationStatusCancelled: {"❌", "Cancelado"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Desconhecido"}
}
