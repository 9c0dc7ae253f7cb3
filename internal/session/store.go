package session

import (
	"context"
	"sync"
	"time"

	"datachat/internal/agent"
	pkgLog "datachat/pkg/log"
)

// DefaultMaxHistory is the per-session message cap when the config leaves
// it unset.
const DefaultMaxHistory = 10

const cleanupInterval = 5 * time.Minute

// Config holds store configuration.
type Config struct {
	MaxHistory int           // max retained messages per session
	TTL        time.Duration // idle sessions are dropped; 0 disables expiry
	Logger     pkgLog.Logger
}

// entry owns one session's history and its exclusive turn lock.
type entry struct {
	// turnMu serializes whole graph runs against the same session so
	// concurrent turns cannot interleave history.
	turnMu      sync.Mutex
	messages    []agent.Message
	lastUpdated time.Time
}

// Store owns all sessions. Callers receive copies of history, never the
// stored slice.
type Store struct {
	mu         sync.RWMutex
	sessions   map[string]*entry
	maxHistory int
	ttl        time.Duration
	l          pkgLog.Logger
}

// New creates a session store and, when a TTL is configured, starts the
// expiry janitor.
func New(cfg Config) *Store {
	maxHistory := cfg.MaxHistory
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	s := &Store{
		sessions:   make(map[string]*entry),
		maxHistory: maxHistory,
		ttl:        cfg.TTL,
		l:          cfg.Logger,
	}
	if s.ttl > 0 {
		go s.cleanupExpired()
	}
	return s
}

// Lock acquires the per-session exclusive scope for the duration of one
// full graph run. The session is created lazily if unseen. The returned
// release function must be called on completion or failure.
func (s *Store) Lock(id string) func() {
	e := s.getOrCreate(id)
	e.turnMu.Lock()
	return e.turnMu.Unlock
}

// GetOrCreate returns a copy of the session's history, creating the
// session lazily on first reference.
func (s *Store) GetOrCreate(id string) []agent.Message {
	e := s.getOrCreate(id)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMessages(e.messages)
}

// AppendTurn appends the messages generated by one turn and truncates the
// history to the retention cap. Truncation drops whole turns (a user
// message plus everything generated answering it) so an action and its
// observation are never split apart.
func (s *Store) AppendTurn(id string, msgs []agent.Message) {
	e := s.getOrCreate(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	e.messages = append(e.messages, msgs...)
	e.messages = truncateTurnAligned(e.messages, s.maxHistory)
	e.lastUpdated = time.Now()
}

// Read returns a copy of the session's history without mutating it.
func (s *Store) Read(id string) ([]agent.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, agent.ErrSessionNotFound
	}
	return cloneMessages(e.messages), nil
}

// Clear removes the session. It reports whether the session existed.
func (s *Store) Clear(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	return ok
}

func (s *Store) getOrCreate(id string) *entry {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.sessions[id]; ok {
		return e
	}
	e = &entry{lastUpdated: time.Now()}
	s.sessions[id] = e
	return e
}

// cleanupExpired drops sessions idle past the TTL.
func (s *Store) cleanupExpired() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-s.ttl)
		removed := 0

		s.mu.Lock()
		for id, e := range s.sessions {
			if e.lastUpdated.Before(cutoff) {
				delete(s.sessions, id)
				removed++
			}
		}
		s.mu.Unlock()

		if removed > 0 && s.l != nil {
			s.l.Infof(context.Background(), "session store: cleaned up %d expired session(s)", removed)
		}
	}
}

// truncateTurnAligned keeps at most max messages, dropping oldest whole
// turns first. A turn starts at a user message; cutting inside a turn
// would break the action/observation pairing the reasoning service
// depends on.
func truncateTurnAligned(msgs []agent.Message, max int) []agent.Message {
	if len(msgs) <= max {
		return msgs
	}

	// Candidate raw cut: keep the newest max messages, then push the cut
	// forward to the next turn boundary.
	cut := len(msgs) - max
	for cut < len(msgs) && msgs[cut].Role != agent.RoleUser {
		cut++
	}

	if cut == len(msgs) {
		// Degenerate case: the newest turn alone exceeds the cap. The
		// bound wins over pairing; keep the newest max messages.
		cut = len(msgs) - max
	}

	return append(msgs[:0], msgs[cut:]...)
}

// cloneMessages deep-copies the history, including the actions and their
// argument maps, so callers cannot mutate stored messages through shared
// references.
func cloneMessages(msgs []agent.Message) []agent.Message {
	out := make([]agent.Message, len(msgs))
	copy(out, msgs)
	for i := range out {
		if len(out[i].Actions) == 0 {
			continue
		}
		actions := make([]agent.Action, len(out[i].Actions))
		copy(actions, out[i].Actions)
		for j := range actions {
			if actions[j].Args == nil {
				continue
			}
			args := make(map[string]any, len(actions[j].Args))
			for k, v := range actions[j].Args {
				args[k] = v
			}
			actions[j].Args = args
		}
		out[i].Actions = actions
	}
	return out
}
