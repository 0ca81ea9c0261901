package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/picelmedia/wabot-admin/internal/config"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	"go.mau.fi/whatsmeow/types/events"
	"go.uber.org/zap"
)

const inboundTaskTimeout = 30 * time.Second

// InboundWorker runs the bot pipeline for received messages on an ants pool
// so whatsmeow's event loop never waits on the database.
type InboundWorker struct {
	pool    *ants.PoolWithFunc
	handler interfaces.InboundHandler
	log     *zap.Logger
}

func NewInboundWorker(cfg config.WorkerPoolConfig, handler interfaces.InboundHandler, log *zap.Logger) (*InboundWorker, error) {
	w := &InboundWorker{
		handler: handler,
		log:     log.Named("inbound_worker"),
	}

	pool, err := ants.NewPoolWithFunc(cfg.PoolSize, func(i interface{}) {
		msg, ok := i.(entities.InboundMessage)
		if !ok {
			w.log.Error("Invalid task data type received", zap.Any("data", i))
			return
		}
		w.process(msg)
	},
		ants.WithExpiryDuration(cfg.ExpiryTime),
		ants.WithNonblocking(false),
		ants.WithMaxBlockingTasks(cfg.MaxBlock),
		ants.WithPanicHandler(func(p interface{}) {
			w.log.Error("Panic recovered in inbound worker", zap.Any("panic_error", p), zap.Stack("stack"))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create inbound worker pool: %w", err)
	}
	w.pool = pool
	w.log.Info("Inbound worker pool initialized",
		zap.Int("pool_size", cfg.PoolSize),
		zap.Int("max_block", cfg.MaxBlock),
		zap.Duration("expiry_time", cfg.ExpiryTime),
	)
	return w, nil
}

// Submit queues msg. It blocks while the pool is full and fails once
// MaxBlock submitters are already waiting.
func (w *InboundWorker) Submit(msg entities.InboundMessage) error {
	if err := w.pool.Invoke(msg); err != nil {
		if errors.Is(err, ants.ErrPoolOverload) {
			return fmt.Errorf("inbound pool overload: %w", err)
		}
		return fmt.Errorf("failed to invoke inbound task: %w", err)
	}
	return nil
}

func (w *InboundWorker) process(msg entities.InboundMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), inboundTaskTimeout)
	defer cancel()

	start := time.Now()
	if err := w.handler.HandleInbound(ctx, msg); err != nil {
		w.log.Error("Inbound message failed",
			zap.String("client_id", msg.ClientID),
			zap.String("phone", msg.Phone),
			zap.Error(err),
		)
		return
	}
	w.log.Debug("Inbound message processed",
		zap.String("client_id", msg.ClientID),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// EventHandler returns a whatsmeow event handler for clientID's device that
// submits 1:1 text messages to the pool. It fits WhatsAppManager.HandlerFactory.
func (w *InboundWorker) EventHandler(clientID string) func(interface{}) {
	return func(evt interface{}) {
		switch v := evt.(type) {
		case *events.Message:
			phone, name, content, ok := ParseMessage(v)
			if !ok {
				return
			}
			msg := entities.InboundMessage{
				ClientID: clientID,
				Phone:    phone,
				Name:     name,
				Content:  content,
				At:       v.Info.Timestamp.UTC(),
			}
			if err := w.Submit(msg); err != nil {
				w.log.Warn("Inbound message dropped", zap.String("client_id", clientID), zap.Error(err))
			}
		case *events.LoggedOut:
			w.log.Warn("WhatsApp device logged out", zap.String("client_id", clientID))
		}
	}
}

// Running reports the number of busy workers.
func (w *InboundWorker) Running() int {
	return w.pool.Running()
}

// Stop waits up to timeout for queued tasks, then releases the pool.
func (w *InboundWorker) Stop(timeout time.Duration) {
	if err := w.pool.ReleaseTimeout(timeout); err != nil {
		w.log.Warn("Inbound worker pool did not drain", zap.Error(err))
		return
	}
	w.log.Info("Inbound worker pool stopped")
}
