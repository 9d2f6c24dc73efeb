package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.auth.Authenticate(req.Email, req.Password); err != nil {
		h.logger.Warn("Staff login failed", zap.String("ip", c.ClientIP()))
		h.writeError(c, err)
		return
	}

	if err := h.auth.SetSession(c.Writer, c.Request); err != nil {
		h.writeError(c, err)
		return
	}

	token, expiresAt, err := h.auth.IssueToken()
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt})
}

func (h *Handler) logout(c *gin.Context) {
	h.auth.ClearSession(c.Writer)
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) listReservations(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("date"); raw != "" {
		date, err := model.ParseDate(raw)
		if err != nil {
			h.writeError(c, err)
			return
		}
		list, err := h.reservations.ListByDate(ctx, date)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reservations": list})
		return
	}

	list, err := h.reservations.List(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": list})
}

func (h *Handler) createReservation(c *gin.Context) {
	var req staffReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		h.writeError(c, err)
		return
	}

	res := &model.Reservation{
		Name:     req.Name,
		Phone:    req.Phone,
		Service:  req.Service,
		Date:     date,
		TimeSlot: req.TimeSlot,
	}
	if err := h.reservations.StaffCreate(c.Request.Context(), res); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *Handler) updateReservationStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req reservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	update, err := h.reservations.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, update)
}

func (h *Handler) deleteReservation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.reservations.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) listRecurring(c *gin.Context) {
	list, err := h.recurring.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recurring": list})
}

func (h *Handler) createRecurring(c *gin.Context) {
	var req recurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rec := &model.RecurringReservation{
		Name:     req.Name,
		Phone:    req.Phone,
		Service:  req.Service,
		Weekday:  req.Weekday,
		TimeSlot: req.TimeSlot,
	}
	if err := h.recurring.Create(c.Request.Context(), rec); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) updateRecurringStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req recurringStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rec, err := h.recurring.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *Handler) deleteRecurring(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.recurring.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) runCleanup(c *gin.Context) {
	result, err := h.cleanup.Run(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
