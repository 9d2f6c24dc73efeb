package httpapi

import (
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/google/uuid"
)

type holdRequest struct {
	Date     string `json:"date" binding:"required"`
	TimeSlot string `json:"time_slot" binding:"required"`
}

type releaseRequest struct {
	Date     string    `json:"date" binding:"required"`
	TimeSlot string    `json:"time_slot" binding:"required"`
	Token    uuid.UUID `json:"token" binding:"required"`
}

type confirmRequest struct {
	Token     uuid.UUID `json:"token" binding:"required"`
	Date      string    `json:"date" binding:"required"`
	TimeSlot  string    `json:"time_slot" binding:"required"`
	Name      string    `json:"name" binding:"required"`
	Phone     string    `json:"phone" binding:"required"`
	ServiceID int       `json:"service_id" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type staffReservationRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Service  string `json:"service" binding:"required"`
	Date     string `json:"date" binding:"required"`
	TimeSlot string `json:"time_slot" binding:"required"`
}

type reservationStatusRequest struct {
	Status model.ReservationStatus `json:"status" binding:"required"`
}

type recurringRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Service  string `json:"service" binding:"required"`
	Weekday  int    `json:"weekday" binding:"required"`
	TimeSlot string `json:"time_slot" binding:"required"`
}

type recurringStatusRequest struct {
	Status model.RecurringStatus `json:"status" binding:"required"`
}
