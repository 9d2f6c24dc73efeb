package keyboard

import (
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// Префиксы callback data для действий над записью
const (
	ConfirmPrefix = "confirm:" // confirm:<uuid>
	CancelPrefix  = "cancel:"  // cancel:<uuid>
)

// Builder упрощает создание inline клавиатур
type Builder struct {
	rows [][]models.InlineKeyboardButton
}

// NewBuilder создаёт новый builder клавиатуры
func NewBuilder() *Builder {
	return &Builder{
		rows: make([][]models.InlineKeyboardButton, 0),
	}
}

// Row добавляет новый ряд кнопок, пустые ряды пропускаются
func (b *Builder) Row(buttons ...models.InlineKeyboardButton) *Builder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

// Build создаёт финальную клавиатуру
func (b *Builder) Build() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: b.rows,
	}
}

// Button создаёт кнопку с callback data
func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// URLButton создаёт кнопку-ссылку
func URLButton(text, url string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text: text,
		URL:  url,
	}
}

// ReservationActions - кнопки подтверждения и отмены новой записи
func ReservationActions(id uuid.UUID) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(
			Button("✅ Confirmar", ConfirmPrefix+id.String()),
			Button("❌ Cancelar", CancelPrefix+id.String()),
		).
		Build()
}

// WhatsApp возвращает клавиатуру с одной ссылкой на чат с клиентом.
// Для пустой ссылки клавиатура не нужна.
func WhatsApp(link string) *models.InlineKeyboardMarkup {
	if link == "" {
		return nil
	}
	return NewBuilder().Row(URLButton("💬 Avisar cliente no WhatsApp", link)).Build()
}
