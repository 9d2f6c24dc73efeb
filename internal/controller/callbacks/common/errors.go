package common

import (
	"errors"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
)

// ErrorMessage возвращает сообщение для барбера по ошибке
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return "❌ Agendamento não encontrado"
	case errors.Is(err, model.ErrSlotConflict):
		return "❌ Este horário já está ocupado"
	case errors.Is(err, ErrNoMessage):
		return "❌ Erro ao processar a mensagem"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Formato de dados inválido"
	case model.IsValidation(err):
		return "❌ " + err.Error()
	default:
		return "❌ Ocorreu um erro. Tente novamente mais tarde."
	}
}
