package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/config"
	"github.com/Freeeeeet/barbershop_booking/internal/controller/callbacks/common"
	"github.com/Freeeeeet/barbershop_booking/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/barbershop_booking/internal/model"
)

func main() {
	now := time.Now()
	date := model.DateOf(now, time.Local)

	// Тестовые данные: по записи каждого вида
	reservations := []*model.Reservation{
		{Name: "João", Service: "Corte de Cabelo", TimeSlot: "09:30", Status: model.ReservationStatusConfirmed},
		{Name: "Pedro", Service: "Barba", TimeSlot: "11:00", Status: model.ReservationStatusPending},
		{Name: "Lucas", Service: "Corte + Barba", TimeSlot: "15:00", Status: model.ReservationStatusCancelled},
	}
	recurring := []*model.RecurringReservation{
		{Name: "Carlos", Service: "Corte de Cabelo", TimeSlot: "14:30", Status: model.RecurringStatusActive},
	}

	catalog := config.DefaultSlotCatalog
	free := make([]string, 0, len(catalog))
	for _, slot := range catalog {
		// 16:00 изображает слот, который клиент прямо сейчас оформляет
		if slot != "16:00" {
			free = append(free, slot)
		}
	}

	rows := common.BuildBoardRows(catalog, reservations, recurring, free, false)
	imageData, err := common.GenerateDayBoard(date, rows, now)
	if err != nil {
		fmt.Printf("Failed to render board: %v\n", err)
		os.Exit(1)
	}

	filename := "day_board.png"
	if err := os.WriteFile(filename, imageData, 0644); err != nil {
		fmt.Printf("Failed to save board: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Board saved to %s\n", filename)
	fmt.Printf("📅 %s, %d slots\n", formatting.FormatDateWithWeekday(date), len(rows))
}
