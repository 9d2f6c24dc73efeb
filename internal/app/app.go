package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/auth"
	"github.com/Freeeeeet/barbershop_booking/internal/availability"
	"github.com/Freeeeeet/barbershop_booking/internal/cache"
	"github.com/Freeeeeet/barbershop_booking/internal/config"
	"github.com/Freeeeeet/barbershop_booking/internal/controller"
	"github.com/Freeeeeet/barbershop_booking/internal/controller/httpapi"
	"github.com/Freeeeeet/barbershop_booking/internal/messaging"
	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/Freeeeeet/barbershop_booking/internal/repository"
	"github.com/Freeeeeet/barbershop_booking/internal/repository/memory"
	"github.com/Freeeeeet/barbershop_booking/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	redisPendingPrefix = "barbershop:pending:"
	shutdownTimeout    = 10 * time.Second
)

// Options - режим сборки приложения
type Options struct {
	// InMemory - хранить записи в памяти процесса вместо Postgres
	InMemory bool
	// WithBot - поднять Telegram-бота, если он настроен
	WithBot bool
}

// reservationStore - всё, что сервисам нужно от хранилища разовых записей
type reservationStore interface {
	service.ReservationStore
	service.CleanupStore
	availability.ReservationReader
	availability.UpcomingLister
}

// recurringStore - всё, что сервисам нужно от хранилища постоянных записей
type recurringStore interface {
	service.RecurringStore
	availability.RecurringReader
}

// App собирает все зависимости сервиса
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	loc    *time.Location

	pool     *pgxpool.Pool
	redis    *redis.Client
	listener *repository.Listener
	snapshot *availability.Snapshot

	Reconciler   *availability.Reconciler
	Reservations *service.ReservationService
	Recurring    *service.RecurringService
	Cleanup      *service.CleanupService
	Flow         *service.BookingFlow
	Auth         *auth.Authenticator

	bot    *bot.Bot
	botCtl *controller.BotController
}

// New создаёт приложение: подключения, хранилища, сервисы
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, logger: logger, loc: loc}

	var reservations reservationStore
	var recurring recurringStore

	if opts.InMemory {
		logger.Warn("Running with in-memory storage, data is lost on restart")
		reservations = memory.NewReservationStore()
		recurring = memory.NewRecurringStore()
	} else {
		if err := cfg.RequireDB(); err != nil {
			return nil, err
		}
		pool, err := NewPool(ctx, cfg.GetDBDSN())
		if err != nil {
			return nil, err
		}
		a.pool = pool
		a.listener = repository.NewListener(pool, logger)
		reservations = repository.NewReservationRepository(pool)
		recurring = repository.NewRecurringRepository(pool)
	}

	pending, err := a.pendingStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.snapshot = availability.NewSnapshot(reservations, loc, logger)
	a.Reconciler = availability.NewReconciler(
		reservations,
		recurring,
		pending,
		cache.New[any](),
		logger,
		availability.WithFallback(a.snapshot),
	)

	shop := messaging.Shop{Name: cfg.ShopName, Phone: cfg.ShopPhone}
	a.Reservations = service.NewReservationService(reservations, a.Reconciler, shop, logger)
	a.Recurring = service.NewRecurringService(recurring, a.Reconciler, loc, logger)
	a.Cleanup = service.NewCleanupService(reservations, a.Reconciler, loc, logger)

	var notifier service.Notifier = service.NopNotifier{}
	if opts.WithBot && cfg.TelegramEnabled() {
		b, err := bot.New(cfg.TelegramToken)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create telegram bot: %w", err)
		}
		a.bot = b
		notifier = controller.NewTelegramNotifier(b, cfg.BarberChatID, logger)
	}

	a.Flow = service.NewBookingFlow(a.Reconciler, a.Reservations, notifier, service.FlowConfig{
		Catalog:  cfg.SlotCatalog,
		Services: model.DefaultServices,
		HoldTTL:  cfg.HoldTTL,
		Location: loc,
		Shop:     shop,
	}, logger)

	if a.bot != nil {
		a.botCtl = controller.NewBotController(a.bot, a.Reservations, a.Recurring, a.Flow, cfg.BarberChatID, loc, logger)
	}

	a.Auth, err = auth.New(auth.Config{
		Email:        cfg.StaffEmail,
		PasswordHash: cfg.StaffPasswordHash,
		HashKey:      cfg.SessionHashKey,
		BlockKey:     cfg.SessionBlockKey,
		JWTSecret:    cfg.JWTSecret,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create authenticator: %w", err)
	}

	return a, nil
}

// NewPool открывает пул соединений и проверяет доступность базы
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// pendingStore выбирает хранилище мягких блокировок: Redis, если он
// настроен, иначе память процесса
func (a *App) pendingStore(ctx context.Context) (availability.PendingStore, error) {
	if a.cfg.RedisAddr == "" {
		return availability.NewRegister(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	a.redis = client

	a.logger.Info("Using redis for pending bookings", zap.String("addr", a.cfg.RedisAddr))
	return availability.NewRedisRegister(client, redisPendingPrefix), nil
}

// Migrate применяет миграции. В режиме памяти ничего не делает.
func (a *App) Migrate(ctx context.Context) error {
	if a.pool == nil {
		return nil
	}

	migrator, err := NewMigrator(a.pool, a.cfg.MigrationsDir)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Run(ctx)
}

// Handler собирает HTTP API
func (a *App) Handler() http.Handler {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	h := httpapi.NewHandler(a.Flow, a.Reservations, a.Recurring, a.Cleanup, a.Auth, a.logger)
	return h.Router(httpapi.NewRateLimiter(a.cfg.RateLimitPerMin, a.logger))
}

// Run запускает HTTP-сервер, фоновые задачи, снимок записей и бота.
// Блокируется до отмены ctx, затем корректно всё останавливает.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	scheduler := NewScheduler(a.Reconciler, a.Cleanup, a.cfg.CacheCleanupInterval, a.cfg.AutoCleanupInterval, a.logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.snapshot.Run(ctx, a.subscribe); err != nil {
			a.logger.Warn("Reservation snapshot stopped", zap.Error(err))
		}
	}()

	if a.botCtl != nil {
		if err := a.botCtl.RegisterHandlers(ctx); err != nil {
			a.logger.Warn("Failed to register bot commands", zap.Error(err))
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = a.botCtl.Start(ctx)
		}()
	} else {
		a.logger.Info("Telegram bot disabled")
	}

	server := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", zap.String("addr", a.cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	a.logger.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	cancel()
	wg.Wait()
	return runErr
}

// subscribe подписывает снимок на уведомления Postgres. Без базы
// обновлять снимок нечем, подписка пустая.
func (a *App) subscribe(ctx context.Context, onChange func()) (func(), error) {
	if a.listener == nil {
		return func() {}, nil
	}
	return a.listener.Subscribe(ctx, repository.ReservationsChannel, a.onStoreChange(onChange))
}

// onStoreChange сбрасывает кеш, затем обновляет снимок
func (a *App) onStoreChange(onChange func()) func() {
	return func() {
		a.Reconciler.Cache().Clear()
		onChange()
	}
}

// Close освобождает подключения
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
