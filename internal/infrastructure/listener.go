package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	"github.com/picelmedia/wabot-admin/internal/observer"
	"github.com/picelmedia/wabot-admin/pkg/logger"
	"github.com/picelmedia/wabot-admin/pkg/utils"
	"go.uber.org/zap"
)

// listenerLockKey is the advisory lock taken when only one instance may listen.
const listenerLockKey int64 = 0x5741_4e54_4649

var errLockHeld = errors.New("change listener lock held by another instance")

// ChangeListener holds a dedicated pool connection on LISTEN, invalidates the
// query cache for each change and publishes it to the broker.
type ChangeListener struct {
	pool      *pgxpool.Pool
	channel   string
	cache     interfaces.QueryCache
	publisher interfaces.ChangePublisher
	// Exclusive makes instances compete for an advisory lock so a shared
	// broker receives each change once.
	Exclusive   bool
	MaxInterval time.Duration
	log         *zap.Logger
}

func NewChangeListener(pool *pgxpool.Pool, channel string, cache interfaces.QueryCache, publisher interfaces.ChangePublisher) *ChangeListener {
	return &ChangeListener{
		pool:        pool,
		channel:     channel,
		cache:       cache,
		publisher:   publisher,
		MaxInterval: 30 * time.Second,
		log:         logger.Log.Named("change_listener"),
	}
}

// Run listens until ctx is cancelled, reconnecting with exponential backoff.
func (l *ChangeListener) Run(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = l.MaxInterval
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(b, ctx)

	operation := func() error {
		err := l.listenOnce(ctx, b.Reset)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	notify := func(err error, d time.Duration) {
		if errors.Is(err, errLockHeld) {
			l.log.Debug("Listener lock held elsewhere", zap.Duration("retry_in", d))
			return
		}
		l.log.Warn("Change listener disconnected, reconnecting", zap.Error(err), zap.Duration("after", d))
	}

	err := backoff.RetryNotify(operation, policy, notify)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		l.log.Info("Change listener stopped")
		return nil
	}
	return err
}

func (l *ChangeListener) listenOnce(ctx context.Context, onReady func()) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen conn: %w", err)
	}
	defer conn.Release()

	if l.Exclusive {
		var locked bool
		if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", listenerLockKey).Scan(&locked); err != nil {
			return fmt.Errorf("advisory lock: %w", err)
		}
		if !locked {
			return errLockHeld
		}
		defer func() {
			// The session lock dies with the connection if this fails.
			_, _ = conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", listenerLockKey)
		}()
	}

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", l.channel, err)
	}
	l.log.Info("Listening for changes", zap.String("channel", l.channel), zap.Bool("exclusive", l.Exclusive))
	onReady()

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		l.handle(ctx, n.Payload)
	}
}

func (l *ChangeListener) handle(ctx context.Context, payload string) {
	evt, err := DecodeChangeEvent(payload)
	if err != nil {
		l.log.Warn("Dropping malformed change payload", zap.String("payload", payload), zap.Error(err))
		return
	}
	observer.IncChangeEvent(evt.Table, evt.Op)
	if evt.ClientID == "" {
		return
	}

	if err := l.cache.Invalidate(ctx, interfaces.CacheDep(evt.ClientID, evt.Table)); err != nil {
		l.log.Warn("Cache invalidation failed", zap.String("table", evt.Table), zap.Error(err))
	}
	if err := l.publisher.Publish(ctx, evt); err != nil {
		l.log.Warn("Publish change failed", zap.String("table", evt.Table), zap.Error(err))
	}
}

// DecodeChangeEvent parses a trigger payload and stamps its receive time.
func DecodeChangeEvent(payload string) (entities.ChangeEvent, error) {
	var evt entities.ChangeEvent
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		return evt, fmt.Errorf("decode change: %w", err)
	}
	if evt.Table == "" || evt.Op == "" {
		return evt, fmt.Errorf("decode change: missing table or op")
	}
	evt.At = utils.Now()
	return evt, nil
}

