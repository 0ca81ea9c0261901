package usecases

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	"github.com/picelmedia/wabot-admin/internal/tenant"
)

const testClientID = "6f1c2a9e-8d4b-4c1e-9a51-2f0e7b3d5c11"

func tenantCtx() context.Context {
	ctx := tenant.WithClientID(context.Background(), testClientID)
	return tenant.WithUserID(ctx, "user-1")
}

func strPtr(s string) *string { return &s }

type cachedEntry struct {
	value interface{}
	deps  []string
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string]cachedEntry
	gens        map[string]int
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]cachedEntry{}, gens: map[string]int{}}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return interfaces.ErrCacheMiss
	}
	if stats, ok := dest.(*DashboardStats); ok {
		*stats = *e.value.(*DashboardStats)
	}
	return nil
}

func (c *fakeCache) version(deps []string) string {
	parts := make([]string, len(deps))
	for i, dep := range deps {
		parts[i] = strconv.Itoa(c.gens[dep])
	}
	return strings.Join(parts, ",")
}

func (c *fakeCache) Version(_ context.Context, deps ...string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version(deps), nil
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, version string, deps ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.version(deps) != version {
		return nil
	}
	c.entries[key] = cachedEntry{value: value, deps: deps}
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, deps ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, deps...)
	for _, dep := range deps {
		c.gens[dep]++
		for key, e := range c.entries {
			for _, d := range e.deps {
				if d == dep {
					delete(c.entries, key)
					break
				}
			}
		}
	}
	return nil
}

func (c *fakeCache) Invalidated() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.invalidated...)
}

type sentText struct {
	clientID, phone, text string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentText
	err  error
}

func (s *fakeSender) SendText(_ context.Context, clientID, phone, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentText{clientID, phone, text})
	return nil
}

type fakeDispatcher struct {
	got []entities.CampaignDispatch
	err error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, payload entities.CampaignDispatch) error {
	d.got = append(d.got, payload)
	return d.err
}

type fakeForwarder struct {
	ch chan entities.Notification
}

func (f *fakeForwarder) Forward(_ context.Context, n entities.Notification) error {
	f.ch <- n
	return nil
}
