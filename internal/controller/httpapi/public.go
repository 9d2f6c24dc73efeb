package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/Freeeeeet/barbershop_booking/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) listServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": h.flow.Services()})
}

func (h *Handler) listSlots(c *gin.Context) {
	date, err := model.ParseDate(c.Query("date"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	slots, err := h.flow.AvailableSlots(c.Request.Context(), date)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  model.DateKey(date),
		"slots": slots,
	})
}

func (h *Handler) createHold(c *gin.Context) {
	var req holdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		h.writeError(c, err)
		return
	}

	hold, err := h.flow.Hold(c.Request.Context(), date, req.TimeSlot)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, hold)
}

func (h *Handler) releaseHold(c *gin.Context) {
	var req releaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.flow.Release(c.Request.Context(), date, req.TimeSlot, req.Token); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) confirmReservation(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		h.writeError(c, err)
		return
	}

	result, err := h.flow.Confirm(c.Request.Context(), service.BookingRequest{
		Token:     req.Token,
		Date:      date,
		TimeSlot:  req.TimeSlot,
		Name:      req.Name,
		Phone:     req.Phone,
		ServiceID: req.ServiceID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
