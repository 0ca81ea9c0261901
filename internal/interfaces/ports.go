package interfaces

import (
	"context"
	"errors"

	"github.com/picelmedia/wabot-admin/internal/entities"
)

// ErrCacheMiss is returned by QueryCache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// QueryCache caches tenant-scoped read results. Entries are tagged with
// dependencies ("<client_id>:<table>") so writes to a table drop every
// entry built from it.
//
// Version is taken before the value is loaded. Set skips the write when any
// dependency was invalidated since then, so a load racing a write is never
// cached.
type QueryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Version(ctx context.Context, deps ...string) (string, error)
	Set(ctx context.Context, key string, value interface{}, version string, deps ...string) error
	Invalidate(ctx context.Context, deps ...string) error
}

// CacheDep names the cache dependency of one tenant table.
func CacheDep(clientID, table string) string {
	return clientID + ":" + table
}

// ChangePublisher fans a change event out to realtime subscribers.
type ChangePublisher interface {
	Publish(ctx context.Context, evt entities.ChangeEvent) error
}

// Broker delivers change events to subscribers of one tenant.
type Broker interface {
	ChangePublisher
	// Subscribe registers fn for events of clientID. fn must not block.
	Subscribe(clientID string, fn func(entities.ChangeEvent)) (unsubscribe func(), err error)
	Close() error
}

// CampaignDispatcher hands a campaign to the delivery webhook.
type CampaignDispatcher interface {
	Dispatch(ctx context.Context, payload entities.CampaignDispatch) error
}

// MessageSender sends a WhatsApp text from a tenant's device.
type MessageSender interface {
	SendText(ctx context.Context, clientID, phone, text string) error
}

// NotificationForwarder pushes a notification to an out-of-band channel.
type NotificationForwarder interface {
	Forward(ctx context.Context, n entities.Notification) error
}

// InboundHandler runs the bot pipeline for one received message.
type InboundHandler interface {
	HandleInbound(ctx context.Context, msg entities.InboundMessage) error
}
