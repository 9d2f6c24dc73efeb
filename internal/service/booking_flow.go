package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/availability"
	"github.com/Freeeeeet/barbershop_booking/internal/messaging"
	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hold - мягкая блокировка слота, выданная клиенту
type Hold struct {
	Date      time.Time `json:"date"`
	TimeSlot  string    `json:"time_slot"`
	Token     uuid.UUID `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BookingRequest - данные клиента для подтверждения записи
type BookingRequest struct {
	Token     uuid.UUID
	Date      time.Time
	TimeSlot  string
	Name      string
	Phone     string
	ServiceID int
}

// BookingResult - созданная запись и ссылка для отправки заявки барбершопу
type BookingResult struct {
	Reservation  *model.Reservation `json:"reservation"`
	WhatsAppLink string             `json:"whatsapp_link"`
}

// FlowConfig - настройки клиентского сценария записи
type FlowConfig struct {
	Catalog  []string
	Services []model.Service
	HoldTTL  time.Duration
	Location *time.Location
	Shop     messaging.Shop
}

// BookingFlow ведёт клиента от выбора слота до созданной записи
type BookingFlow struct {
	reconciler   *availability.Reconciler
	reservations *ReservationService
	notifier     Notifier
	cfg          FlowConfig
	now          func() time.Time
	logger       *zap.Logger
}

func NewBookingFlow(
	reconciler *availability.Reconciler,
	reservations *ReservationService,
	notifier Notifier,
	cfg FlowConfig,
	logger *zap.Logger,
) *BookingFlow {
	if cfg.HoldTTL <= 0 {
		cfg.HoldTTL = availability.BookingFlowTTL
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if len(cfg.Services) == 0 {
		cfg.Services = model.DefaultServices
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &BookingFlow{
		reconciler:   reconciler,
		reservations: reservations,
		notifier:     notifier,
		cfg:          cfg,
		now:          time.Now,
		logger:       logger,
	}
}

// Services возвращает прайс-лист
func (f *BookingFlow) Services() []model.Service {
	return f.cfg.Services
}

// Catalog возвращает сетку слотов
func (f *BookingFlow) Catalog() []string {
	return f.cfg.Catalog
}

// Today возвращает текущую дату в часовом поясе барбершопа
func (f *BookingFlow) Today() time.Time {
	return model.DateOf(f.now(), f.cfg.Location)
}

func (f *BookingFlow) validateDate(date time.Time) error {
	if date.IsZero() {
		return &model.ValidationError{Field: "date", Reason: "date is required"}
	}
	if date.Before(f.Today()) {
		return &model.ValidationError{Field: "date", Reason: "date is in the past"}
	}
	if date.Weekday() == time.Sunday {
		return &model.ValidationError{Field: "date", Reason: "the shop is closed on sundays"}
	}
	return nil
}

func (f *BookingFlow) validateSlot(date time.Time, slot string) error {
	if err := f.validateDate(date); err != nil {
		return err
	}
	if err := model.ValidateTimeSlot(slot); err != nil {
		return err
	}
	for _, s := range f.cfg.Catalog {
		if s == slot {
			return nil
		}
	}
	return &model.ValidationError{Field: "time_slot", Reason: fmt.Sprintf("time slot %s is not offered", slot)}
}

// AvailableSlots возвращает свободные слоты каталога на дату
func (f *BookingFlow) AvailableSlots(ctx context.Context, date time.Time) ([]string, error) {
	if err := f.validateDate(date); err != nil {
		return nil, err
	}
	return f.reconciler.ListAvailableSlots(ctx, date, model.Weekday(date), f.cfg.Catalog), nil
}

// Hold блокирует свободный слот на время заполнения формы
func (f *BookingFlow) Hold(ctx context.Context, date time.Time, slot string) (*Hold, error) {
	if err := f.validateSlot(date, slot); err != nil {
		return nil, err
	}

	if !f.reconciler.IsSlotAvailable(ctx, date, slot) {
		return nil, model.ErrSlotConflict
	}
	if !f.reconciler.IsRecurringSlotAvailable(ctx, model.Weekday(date), slot) {
		return nil, model.ErrSlotConflict
	}

	p, err := f.reconciler.TryClaimPending(ctx, date, slot, f.cfg.HoldTTL)
	if err != nil {
		return nil, err
	}

	return &Hold{
		Date:      date,
		TimeSlot:  slot,
		Token:     p.Token,
		ExpiresAt: p.ExpiresAt(),
	}, nil
}

// Release снимает блокировку, если она принадлежит токену
func (f *BookingFlow) Release(ctx context.Context, date time.Time, slot string, token uuid.UUID) error {
	p, err := f.reconciler.Pending(ctx, date, slot)
	if err != nil {
		return err
	}
	if p == nil || p.Token != token {
		return nil
	}
	return f.reconciler.ReleasePending(ctx, date, slot)
}

// Confirm создаёт запись по удерживаемому слоту
func (f *BookingFlow) Confirm(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	if err := f.validateSlot(req.Date, req.TimeSlot); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Name) == "" {
		return nil, &model.ValidationError{Field: "name", Reason: "name is required"}
	}
	if strings.TrimSpace(req.Phone) == "" {
		return nil, &model.ValidationError{Field: "phone", Reason: "phone is required"}
	}

	service, ok := model.FindService(f.cfg.Services, req.ServiceID)
	if !ok {
		return nil, &model.ValidationError{Field: "service_id", Reason: fmt.Sprintf("unknown service %d", req.ServiceID)}
	}

	p, err := f.reconciler.Pending(ctx, req.Date, req.TimeSlot)
	if err != nil {
		return nil, err
	}

	owned := p != nil && p.Token == req.Token
	if p != nil && !owned {
		return nil, model.ErrSlotConflict
	}

	res, err := f.confirm(ctx, req, service, owned)
	if err != nil {
		if owned {
			if releaseErr := f.reconciler.ReleasePending(ctx, req.Date, req.TimeSlot); releaseErr != nil {
				f.logger.Warn("Failed to release hold", zap.Error(releaseErr))
			}
		}
		return nil, err
	}

	if err := f.notifier.NewReservation(ctx, res); err != nil {
		f.logger.Warn("Failed to notify about new reservation",
			zap.String("reservation_id", res.ID.String()),
			zap.Error(err),
		)
	}

	return &BookingResult{
		Reservation:  res,
		WhatsAppLink: f.cfg.Shop.BookingLink(res),
	}, nil
}

func (f *BookingFlow) confirm(ctx context.Context, req BookingRequest, service model.Service, owned bool) (*model.Reservation, error) {
	// Без своей блокировки слот мог уйти другому клиенту, проверяем всё заново
	if owned {
		if !f.reconciler.IsRecurringSlotAvailable(ctx, model.Weekday(req.Date), req.TimeSlot) {
			return nil, model.ErrSlotConflict
		}
	} else if !f.reconciler.IsSlotAvailable(ctx, req.Date, req.TimeSlot) {
		return nil, model.ErrSlotConflict
	}

	res := &model.Reservation{
		Name:     req.Name,
		Phone:    messaging.NormalizePhone(req.Phone),
		Service:  service.Name,
		Date:     req.Date,
		TimeSlot: req.TimeSlot,
		Status:   model.ReservationStatusPending,
	}

	if err := f.reservations.Create(ctx, res); err != nil {
		if errors.Is(err, model.ErrSlotConflict) {
			f.logger.Info("Slot taken before confirmation",
				zap.String("date", model.DateKey(req.Date)),
				zap.String("time_slot", req.TimeSlot),
			)
		}
		return nil, err
	}
	return res, nil
}
