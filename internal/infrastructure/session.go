package infrastructure

import (
	"sync"
	"time"
)

type contactSession struct {
	processing bool
	lastReply  time.Time
}

// ReplyGuard stops the bot from answering the same contact twice in a burst.
type ReplyGuard struct {
	mu       sync.Mutex
	sessions map[string]*contactSession
	window   time.Duration
	now      func() time.Time
}

func NewReplyGuard(window time.Duration) *ReplyGuard {
	return &ReplyGuard{
		sessions: make(map[string]*contactSession),
		window:   window,
		now:      time.Now,
	}
}

func sessionKey(clientID, phone string) string {
	return clientID + "|" + phone
}

// Begin reports whether a reply to phone may start now. A true result must be
// paired with Finish.
func (g *ReplyGuard) Begin(clientID, phone string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := sessionKey(clientID, phone)
	s, ok := g.sessions[key]
	if !ok {
		s = &contactSession{}
		g.sessions[key] = s
	}
	now := g.now()
	if s.processing || now.Sub(s.lastReply) < g.window {
		return false
	}
	s.processing = true
	s.lastReply = now
	return true
}

func (g *ReplyGuard) Finish(clientID, phone string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.sessions[sessionKey(clientID, phone)]; ok {
		s.processing = false
	}
}

// Prune drops sessions idle for longer than maxIdle.
func (g *ReplyGuard) Prune(maxIdle time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	for key, s := range g.sessions {
		if !s.processing && now.Sub(s.lastReply) > maxIdle {
			delete(g.sessions, key)
		}
	}
}
