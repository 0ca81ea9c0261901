package http

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/observer"
	"github.com/picelmedia/wabot-admin/pkg/logger"
	"go.uber.org/zap"
)

const realtimeBuffer = 64

// changeFilter selects which change events a subscriber receives. Empty
// sets match everything.
type changeFilter struct {
	tables map[string]struct{}
	ops    map[string]struct{}
}

func (f changeFilter) match(evt entities.ChangeEvent) bool {
	if len(f.tables) > 0 {
		if _, ok := f.tables[evt.Table]; !ok {
			return false
		}
	}
	if len(f.ops) > 0 {
		if _, ok := f.ops[evt.Op]; !ok {
			return false
		}
	}
	return true
}

func parseChangeFilter(tables, events string) (changeFilter, error) {
	f := changeFilter{}
	known := make(map[string]struct{}, len(entities.ChangeTables))
	for _, t := range entities.ChangeTables {
		known[t] = struct{}{}
	}
	for _, t := range splitCSV(tables) {
		if _, ok := known[t]; !ok {
			return f, apperrors.BadRequest("Unknown table: %s", t)
		}
		if f.tables == nil {
			f.tables = make(map[string]struct{})
		}
		f.tables[t] = struct{}{}
	}
	for _, op := range splitCSV(events) {
		op = strings.ToUpper(op)
		switch op {
		case entities.OpInsert, entities.OpUpdate, entities.OpDelete:
		default:
			return f, apperrors.BadRequest("Unknown event: %s", op)
		}
		if f.ops == nil {
			f.ops = make(map[string]struct{})
		}
		f.ops[op] = struct{}{}
	}
	return f, nil
}

// Realtime streams the tenant's change events as Server-Sent Events.
func (h *Handler) Realtime(c *gin.Context) {
	filter, err := parseChangeFilter(c.Query("tables"), c.Query("events"))
	if err != nil {
		respondError(c, err)
		return
	}
	if h.Broker == nil {
		respondError(c, apperrors.New(apperrors.ErrUnavailable, "Realtime feed unavailable"))
		return
	}

	clientID := c.GetString(ctxClientID)
	log := logger.FromContext(c.Request.Context()).With(zap.String("client_id", clientID))

	events := make(chan entities.ChangeEvent, realtimeBuffer)
	unsubscribe, err := h.Broker.Subscribe(clientID, func(evt entities.ChangeEvent) {
		if !filter.match(evt) {
			return
		}
		select {
		case events <- evt:
		default:
			log.Warn("Realtime subscriber lagging, dropping event",
				zap.String("table", evt.Table), zap.String("op", evt.Op))
		}
	})
	if err != nil {
		respondError(c, apperrors.New(apperrors.ErrUnavailable, "Realtime feed unavailable"))
		return
	}
	defer unsubscribe()

	observer.AddRealtimeSubscribers(1)
	defer observer.AddRealtimeSubscribers(-1)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	c.SSEvent("ready", gin.H{"client_id": clientID})
	c.Writer.Flush()

	ticker := time.NewTicker(h.PingInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case evt := <-events:
			c.SSEvent("change", evt)
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", t.UTC().Format(time.RFC3339))
			return true
		}
	})
}
