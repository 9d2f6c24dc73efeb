package messaging

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
)

const (
	brazilCode = "55"
	linkBase   = "https://wa.me/"
)

// NormalizePhone приводит номер к международному формату WhatsApp (Бразилия)
func NormalizePhone(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r <= unicode.MaxASCII {
			return r
		}
		return -1
	}, raw)

	if strings.HasPrefix(digits, brazilCode) && len(digits) >= 12 {
		return digits
	}

	return brazilCode + strings.TrimPrefix(digits, "0")
}

// Link строит ссылку wa.me с предзаполненным текстом
func Link(phone, text string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return linkBase + NormalizePhone(phone) + "?text=" + encoded
}

// Shop - реквизиты барбершопа для сообщений
type Shop struct {
	Name  string
	Phone string
}

// NewBookingMessage - сообщение клиента барбершопу о новой записи
func (s Shop) NewBookingMessage(res *model.Reservation) string {
	return fmt.Sprintf(
		"Olá! Gostaria de agendar um horário na %s.\n\nServiço: %s\nData: %s\nHorário: %s\nNome: %s\nTelefone: %s",
		s.Name,
		res.Service,
		res.Date.Format(model.DisplayDateLayout),
		res.TimeSlot,
		res.Name,
		res.Phone,
	)
}

// ConfirmationMessage - сообщение клиенту о подтверждении
func (s Shop) ConfirmationMessage(res *model.Reservation) string {
	return fmt.Sprintf(
		"Olá %s! Seu agendamento na %s foi confirmado.\n\nServiço: %s\nData: %s\nHorário: %s\n\nAguardamos você!",
		res.Name,
		s.Name,
		res.Service,
		res.Date.Format(model.DisplayDateLayout),
		res.TimeSlot,
	)
}

// CancellationMessage - сообщение клиенту об отмене
func (s Shop) CancellationMessage(res *model.Reservation) string {
	return fmt.Sprintf(
		"Olá %s! Infelizmente precisamos cancelar seu agendamento na %s.\n\nServiço: %s\nData: %s\nHorário: %s\n\nPor favor, entre em contato conosco para reagendar.",
		res.Name,
		s.Name,
		res.Service,
		res.Date.Format(model.DisplayDateLayout),
		res.TimeSlot,
	)
}

// BookingLink - ссылка, которой клиент отправляет заявку барбершопу
func (s Shop) BookingLink(res *model.Reservation) string {
	return Link(s.Phone, s.NewBookingMessage(res))
}

// StatusLink - ссылка для уведомления клиента о новом статусе.
// Для статуса pending сообщения нет, возвращается пустая строка.
func (s Shop) StatusLink(res *model.Reservation) string {
	switch res.Status {
	case model.ReservationStatusConfirmed:
		return Link(res.Phone, s.ConfirmationMessage(res))
	case model.ReservationStatusCancelled:
		return Link(res.Phone, s.CancellationMessage(res))
	}
	return ""
}
