package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/availability"
	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"go.uber.org/zap"
)

// CleanupResult - сколько записей удалено по категориям
type CleanupResult struct {
	Cancelled int64 `json:"cancelled"`
	Expired   int64 `json:"expired"`
	Total     int64 `json:"total"`
}

type CleanupService struct {
	store      CleanupStore
	reconciler *availability.Reconciler
	loc        *time.Location
	now        func() time.Time
	logger     *zap.Logger
}

func NewCleanupService(store CleanupStore, reconciler *availability.Reconciler, loc *time.Location, logger *zap.Logger) *CleanupService {
	if loc == nil {
		loc = time.UTC
	}
	return &CleanupService{
		store:      store,
		reconciler: reconciler,
		loc:        loc,
		now:        time.Now,
		logger:     logger,
	}
}

// RemoveCancelled удаляет отменённые записи
func (s *CleanupService) RemoveCancelled(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteCancelled(ctx)
	if err != nil {
		return 0, fmt.Errorf("remove cancelled reservations: %w", err)
	}
	s.logger.Info("Cancelled reservations removed", zap.Int64("count", n))
	return n, nil
}

// RemoveExpired удаляет записи, прошедшие более суток назад
func (s *CleanupService) RemoveExpired(ctx context.Context) (int64, error) {
	limit := model.DateOf(s.now(), s.loc).AddDate(0, 0, -1)

	n, err := s.store.DeleteBefore(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("remove expired reservations: %w", err)
	}
	s.logger.Info("Expired reservations removed",
		zap.Int64("count", n),
		zap.String("before", model.DateKey(limit)),
	)
	return n, nil
}

// Run выполняет полную очистку
func (s *CleanupService) Run(ctx context.Context) (*CleanupResult, error) {
	cancelled, err := s.RemoveCancelled(ctx)
	if err != nil {
		return nil, err
	}

	expired, err := s.RemoveExpired(ctx)
	if err != nil {
		return nil, err
	}

	if s.reconciler != nil && cancelled+expired > 0 {
		s.reconciler.Cache().Clear()
	}

	return &CleanupResult{
		Cancelled: cancelled,
		Expired:   expired,
		Total:     cancelled + expired,
	}, nil
}
