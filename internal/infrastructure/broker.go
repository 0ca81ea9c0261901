package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	"github.com/picelmedia/wabot-admin/pkg/logger"
	"go.uber.org/zap"
)

// LocalBroker fans change events out to subscribers in this process.
type LocalBroker struct {
	mu     sync.RWMutex
	subs   map[string]map[int64]func(entities.ChangeEvent)
	nextID int64
}

var _ interfaces.Broker = (*LocalBroker)(nil)

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: make(map[string]map[int64]func(entities.ChangeEvent))}
}

func (b *LocalBroker) Publish(_ context.Context, evt entities.ChangeEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, fn := range b.subs[evt.ClientID] {
		fn(evt)
	}
	return nil
}

func (b *LocalBroker) Subscribe(clientID string, fn func(entities.ChangeEvent)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	if b.subs[clientID] == nil {
		b.subs[clientID] = make(map[int64]func(entities.ChangeEvent))
	}
	b.subs[clientID][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[clientID], id)
			if len(b.subs[clientID]) == 0 {
				delete(b.subs, clientID)
			}
		})
	}, nil
}

// Subscribers returns the number of live subscriptions for clientID.
func (b *LocalBroker) Subscribers(clientID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[clientID])
}

func (b *LocalBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = make(map[string]map[int64]func(entities.ChangeEvent))
	return nil
}

// NATSBroker publishes change events on "<prefix>.<client_id>.<table>" so
// every instance can serve realtime subscribers.
type NATSBroker struct {
	nc     *nats.Conn
	prefix string
}

var _ interfaces.Broker = (*NATSBroker)(nil)

func NewNATSBroker(url, prefix string) (*NATSBroker, error) {
	nc, err := nats.Connect(url,
		nats.Name("wabot-admin"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Log.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ErrorHandler(func(nc *nats.Conn, s *nats.Subscription, err error) {
			logger.Log.Error("NATS error", zap.Error(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSBroker{nc: nc, prefix: prefix}, nil
}

func (b *NATSBroker) subject(clientID, table string) string {
	return changeSubject(b.prefix, clientID, table)
}

func changeSubject(prefix, clientID, table string) string {
	return prefix + "." + clientID + "." + table
}

func (b *NATSBroker) Publish(_ context.Context, evt entities.ChangeEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}
	if err := b.nc.Publish(b.subject(evt.ClientID, evt.Table), data); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

func (b *NATSBroker) Subscribe(clientID string, fn func(entities.ChangeEvent)) (func(), error) {
	sub, err := b.nc.Subscribe(b.subject(clientID, ">"), func(m *nats.Msg) {
		var evt entities.ChangeEvent
		if err := json.Unmarshal(m.Data, &evt); err != nil {
			logger.Log.Warn("Dropping malformed NATS change", zap.String("subject", m.Subject), zap.Error(err))
			return
		}
		fn(evt)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe changes: %w", err)
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

func (b *NATSBroker) Close() error {
	if err := b.nc.Drain(); err != nil {
		b.nc.Close()
		return err
	}
	return nil
}
