package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ReservationsChannel - канал уведомлений об изменениях записей
const ReservationsChannel = "reservations_changed"

const listenRetryDelay = 5 * time.Second

// Listener подписывается на NOTIFY Postgres через выделенное соединение пула
type Listener struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewListener создаёт слушателя уведомлений
func NewListener(pool *pgxpool.Pool, logger *zap.Logger) *Listener {
	return &Listener{
		pool:   pool,
		logger: logger,
	}
}

// Subscribe вызывает onChange на каждое уведомление канала. Возвращённая
// функция останавливает подписку и освобождает соединение.
func (l *Listener) Subscribe(ctx context.Context, channel string, onChange func()) (func(), error) {
	conn, err := l.listen(ctx, channel)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.loop(ctx, conn, channel, onChange)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}, nil
}

func (l *Listener) listen(ctx context.Context, channel string) (*pgxpool.Conn, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listen connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen %s: %w", channel, err)
	}
	return conn, nil
}

func (l *Listener) loop(ctx context.Context, conn *pgxpool.Conn, channel string, onChange func()) {
	defer func() {
		if conn != nil {
			l.release(conn, channel)
		}
	}()

	for {
		if conn == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(listenRetryDelay):
			}

			var err error
			conn, err = l.listen(ctx, channel)
			if err != nil {
				l.logger.Warn("Failed to re-subscribe to notifications", zap.String("channel", channel), zap.Error(err))
				continue
			}
			l.logger.Info("Re-subscribed to notifications", zap.String("channel", channel))
			// Пока соединения не было, изменения могли потеряться
			onChange()
		}

		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.Warn("Notification wait failed", zap.String("channel", channel), zap.Error(err))
			// Соединение в неизвестном состоянии, в пул его не возвращаем
			_ = conn.Conn().Close(context.Background())
			conn.Release()
			conn = nil
			continue
		}

		l.logger.Debug("Notification received",
			zap.String("channel", n.Channel),
			zap.String("payload", n.Payload),
		)
		onChange()
	}
}

func (l *Listener) release(conn *pgxpool.Conn, channel string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := conn.Exec(ctx, "UNLISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil && !errors.Is(err, context.Canceled) {
		l.logger.Warn("Failed to unlisten", zap.String("channel", channel), zap.Error(err))
		_ = conn.Conn().Close(ctx)
	}
	conn.Release()
}
