package common

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/controller/callbacks/common/formatting"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// SlotState - состояние слота на доске дня
type SlotState int

const (
	SlotFree      SlotState = iota // Свободен
	SlotHeld                       // Клиент прямо сейчас оформляет запись
	SlotPending                    // Запись ждёт подтверждения
	SlotConfirmed                  // Запись подтверждена
	SlotRecurring                  // Постоянный клиент
	SlotClosed                     // Дата закрыта для записи: прошла или воскресенье
)

// BoardRow - одна строка доски: слот каталога и кто его занимает
type BoardRow struct {
	TimeSlot string
	State    SlotState
	Label    string
}

// Константы размеров и отступов
const (
	boardWidth       = 900
	boardHeader      = 110
	boardRowHeight   = 46
	boardFooter      = 70
	boardPaddingX    = 30
	timeColumnWidth  = 110
	rowBorderRadius  = 8.0
	rowShadowOffset  = 3.0
	rowGap           = 6.0
	legendBoxWidth   = 20.0
	legendBoxHeight  = 14.0
	maxLabelRunes    = 42
	titleFontSize    = 30.0
	subtitleFontSize = 20.0
	slotFontSize     = 22.0
	labelFontSize    = 20.0
	legendFontSize   = 14.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	subtitleColor    = color.RGBA{110, 115, 120, 200}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}
	shadowColor      = color.RGBA{0, 0, 0, 20}
	slotTextColor    = color.RGBA{20, 24, 28, 230}

	slotFreeColor      = color.RGBA{133, 193, 85, 220}
	slotHeldColor      = color.RGBA{255, 214, 102, 230}
	slotPendingColor   = color.RGBA{255, 182, 193, 255}
	slotConfirmedColor = color.RGBA{229, 115, 115, 240}
	slotRecurringColor = color.RGBA{144, 164, 222, 240}
	slotClosedColor    = color.RGBA{200, 202, 206, 230}
)

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[bool]*opentype.Font)
)

// loadFont выставляет Go-шрифт нужного размера или basicfont как fallback
func loadFont(dc *gg.Context, size float64, bold bool) {
	fontsMu.Lock()
	parsed, ok := cachedFonts[bold]
	if !ok {
		data := goregular.TTF
		if bold {
			data = gobold.TTF
		}
		var err error
		parsed, err = opentype.Parse(data)
		if err != nil {
			parsed = nil
		}
		cachedFonts[bold] = parsed
	}
	fontsMu.Unlock()

	if parsed != nil {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

// GenerateDayBoard рисует доску дня: по строке на каждый слот каталога.
// now нужен для линии текущего времени, если date - сегодня.
func GenerateDayBoard(date time.Time, rows []BoardRow, now time.Time) ([]byte, error) {
	height := boardHeader + len(rows)*boardRowHeight + boardFooter
	dc := gg.NewContext(boardWidth, height)
	dc.SetColor(bgColor)
	dc.Clear()

	drawBoardHeader(dc, date, rows)
	for i, row := range rows {
		drawBoardRow(dc, i, row)
	}
	drawNowLine(dc, date, rows, now)
	drawBoardLegend(dc, height)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawBoardHeader рисует дату и счётчик свободных слотов
func drawBoardHeader(dc *gg.Context, date time.Time, rows []BoardRow) {
	free := 0
	for _, row := range rows {
		if row.State == SlotFree {
			free++
		}
	}

	loadFont(dc, titleFontSize, true)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(formatting.FormatDateWithWeekday(date), boardPaddingX, 45, 0, 0.5)

	loadFont(dc, subtitleFontSize, false)
	dc.SetColor(subtitleColor)
	dc.DrawStringAnchored(formatFreeCount(free, len(rows)), boardPaddingX, 82, 0, 0.5)
}

func formatFreeCount(free, total int) string {
	return fmt.Sprintf("%d de %d horários livres", free, total)
}

// drawBoardRow рисует один слот
func drawBoardRow(dc *gg.Context, index int, row BoardRow) {
	y := float64(boardHeader + index*boardRowHeight)
	x := float64(boardPaddingX)
	w := float64(boardWidth - 2*boardPaddingX)
	h := float64(boardRowHeight) - rowGap
	fill := stateColor(row.State)

	dc.SetColor(shadowColor)
	dc.DrawRoundedRectangle(x+rowShadowOffset, y+rowShadowOffset, w, h, rowBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x, y, w, h, rowBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, y, w, h, rowBorderRadius)
	dc.Stroke()

	loadFont(dc, slotFontSize, true)
	dc.SetColor(slotTextColor)
	dc.DrawStringAnchored(row.TimeSlot, x+16, y+h/2, 0, 0.35)

	label := row.Label
	if label == "" {
		label = stateName(row.State)
	}
	loadFont(dc, labelFontSize, false)
	dc.DrawStringAnchored(truncate(label, maxLabelRunes), x+timeColumnWidth, y+h/2, 0, 0.35)
}

// drawNowLine рисует красную линию перед первым ещё не начавшимся слотом
func drawNowLine(dc *gg.Context, date time.Time, rows []BoardRow, now time.Time) {
	if date.Year() != now.Year() || date.YearDay() != now.YearDay() {
		return
	}

	current := now.Format("15:04")
	idx := len(rows)
	for i, row := range rows {
		if row.TimeSlot > current {
			idx = i
			break
		}
	}

	y := float64(boardHeader+idx*boardRowHeight) - rowGap/2
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(boardPaddingX/2, y, boardWidth-boardPaddingX/2, y)
	dc.Stroke()
}

// drawBoardLegend рисует легенду внизу
func drawBoardLegend(dc *gg.Context, height int) {
	items := []SlotState{SlotFree, SlotHeld, SlotPending, SlotConfirmed, SlotRecurring, SlotClosed}

	x := float64(boardPaddingX)
	y := float64(height) - float64(boardFooter)/2

	loadFont(dc, legendFontSize, false)
	for _, state := range items {
		dc.SetColor(stateColor(state))
		dc.DrawRoundedRectangle(x, y-legendBoxHeight/2, legendBoxWidth, legendBoxHeight, 3)
		dc.Fill()

		name := stateName(state)
		dc.SetColor(textColor)
		dc.DrawStringAnchored(name, x+legendBoxWidth+8, y, 0, 0.35)
		w, _ := dc.MeasureString(name)
		x += legendBoxWidth + 8 + w + 24
	}
}

func stateColor(state SlotState) color.RGBA {
	switch state {
	case SlotHeld:
		return slotHeldColor
	case SlotPending:
		return slotPendingColor
	case SlotConfirmed:
		return slotConfirmedColor
	case SlotRecurring:
		return slotRecurringColor
	case SlotClosed:
		return slotClosedColor
	default:
		return slotFreeColor
	}
}

func stateName(state SlotState) string {
	switch state {
	case SlotHeld:
		return "Em reserva"
	case SlotPending:
		return "Pendente"
	case SlotConfirmed:
		return "Confirmado"
	case SlotRecurring:
		return "Fixo"
	case SlotClosed:
		return "Fechado"
	default:
		return "Livre"
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
