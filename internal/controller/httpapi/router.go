package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/barbershop_booking/internal/auth"
	"github.com/Freeeeeet/barbershop_booking/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler - HTTP API записи для клиентов и панели барбера
type Handler struct {
	flow         *service.BookingFlow
	reservations *service.ReservationService
	recurring    *service.RecurringService
	cleanup      *service.CleanupService
	auth         *auth.Authenticator
	logger       *zap.Logger
}

func NewHandler(
	flow *service.BookingFlow,
	reservations *service.ReservationService,
	recurring *service.RecurringService,
	cleanup *service.CleanupService,
	authenticator *auth.Authenticator,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		flow:         flow,
		reservations: reservations,
		recurring:    recurring,
		cleanup:      cleanup,
		auth:         authenticator,
		logger:       logger,
	}
}

// Router собирает gin.Engine со всеми маршрутами
func (h *Handler) Router(limiter *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	if limiter != nil {
		api.Use(limiter.Middleware())
	}

	api.GET("/services", h.listServices)
	api.GET("/slots", h.listSlots)
	api.POST("/holds", h.createHold)
	api.POST("/holds/release", h.releaseHold)
	api.POST("/reservations", h.confirmReservation)

	staff := api.Group("/staff")
	staff.POST("/login", h.login)

	protected := staff.Group("", h.auth.RequireStaff())
	protected.POST("/logout", h.logout)
	protected.GET("/reservations", h.listReservations)
	protected.POST("/reservations", h.createReservation)
	protected.PATCH("/reservations/:id/status", h.updateReservationStatus)
	protected.DELETE("/reservations/:id", h.deleteReservation)
	protected.GET("/recurring", h.listRecurring)
	protected.POST("/recurring", h.createRecurring)
	protected.PATCH("/recurring/:id/status", h.updateRecurringStatus)
	protected.DELETE("/recurring/:id", h.deleteRecurring)
	protected.POST("/cleanup", h.runCleanup)
	protected.GET("/slots", h.listSlots)

	return r
}
