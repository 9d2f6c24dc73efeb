package app

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/service"
	"go.uber.org/zap"
)

// Maintainer периодически чистит кеш и просроченные блокировки
type Maintainer interface {
	Maintain(ctx context.Context)
}

// Cleaner удаляет отменённые и прошедшие записи
type Cleaner interface {
	Run(ctx context.Context) (*service.CleanupResult, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	maintainer       Maintainer
	cleaner          Cleaner
	maintainInterval time.Duration
	cleanupInterval  time.Duration
	logger           *zap.Logger
	stopChan         chan struct{}
	stopOnce         sync.Once
	wg               sync.WaitGroup
}

// NewScheduler создаёт новый планировщик. cleanupInterval <= 0 отключает
// автоматическую очистку записей.
func NewScheduler(
	maintainer Maintainer,
	cleaner Cleaner,
	maintainInterval, cleanupInterval time.Duration,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		maintainer:       maintainer,
		cleaner:          cleaner,
		maintainInterval: maintainInterval,
		cleanupInterval:  cleanupInterval,
		logger:           logger,
		stopChan:         make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler",
		zap.Duration("maintain_interval", s.maintainInterval),
		zap.Duration("cleanup_interval", s.cleanupInterval))

	s.wg.Add(1)
	go s.runTask(ctx, "cache maintenance", s.maintainInterval, false, func(ctx context.Context) {
		s.maintainer.Maintain(ctx)
	})

	if s.cleaner != nil && s.cleanupInterval > 0 {
		s.wg.Add(1)
		go s.runTask(ctx, "auto cleanup", s.cleanupInterval, true, s.cleanup)
	}
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

// runTask выполняет job по тикеру до Stop или отмены ctx
func (s *Scheduler) runTask(ctx context.Context, name string, interval time.Duration, runNow bool, job func(context.Context)) {
	defer s.wg.Done()

	if runNow {
		job(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			job(ctx)
		case <-s.stopChan:
			s.logger.Info("Background task stopped", zap.String("task", name))
			return
		case <-ctx.Done():
			s.logger.Info("Background task cancelled", zap.String("task", name))
			return
		}
	}
}

// cleanup удаляет отменённые и прошедшие записи
func (s *Scheduler) cleanup(ctx context.Context) {
	result, err := s.cleaner.Run(ctx)
	if err != nil {
		s.logger.Error("Auto cleanup failed", zap.Error(err))
		return
	}

	s.logger.Info("Auto cleanup completed",
		zap.Int64("cancelled", result.Cancelled),
		zap.Int64("expired", result.Expired))
}
