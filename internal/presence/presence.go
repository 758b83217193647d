// Package presence tracks the live SSH sessions of a server: who is
// connected, what they are doing, and short notices broadcast between
// them (e.g. "bob was traced on level 7"). Sessions never share game
// state; every one owns its own engine.
package presence

import (
	"sort"
	"sync"
	"time"
)

// SessionID uniquely identifies one SSH connection.
type SessionID string

// Activity describes what a session is doing right now.
type Activity struct {
	Screen  string // "menu", "scoreboard" or "game"
	Ruleset string // set while playing
	Level   int
}

// Notice is a short message shown to other sessions.
type Notice struct {
	From string
	Text string
	At   time.Time
}

// Handle is the transport-neutral side of a session the registry talks to.
type Handle interface {
	// ID returns the unique session identifier.
	ID() SessionID

	// User returns the name the session connected as.
	User() string

	// Send delivers a notice. Must not block.
	Send(n Notice)

	// Done returns a channel that closes when the session ends.
	Done() <-chan struct{}
}

// ChannelSession is a Handle backed by a buffered channel. The TUI reads
// Notices() from a tea.Cmd.
type ChannelSession struct {
	id       SessionID
	user     string
	notices  chan Notice
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSession creates a channel-based handle. bufferSize controls
// how many notices queue up before the oldest is dropped.
func NewChannelSession(id SessionID, user string, bufferSize int) *ChannelSession {
	if bufferSize < 1 {
		bufferSize = 16
	}
	return &ChannelSession{
		id:      id,
		user:    user,
		notices: make(chan Notice, bufferSize),
		done:    make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// User returns the SSH user name.
func (s *ChannelSession) User() string {
	return s.user
}

// Send queues a notice. A full buffer drops its oldest entry.
func (s *ChannelSession) Send(n Notice) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.notices <- n:
	default:
		select {
		case <-s.notices:
		default:
		}
		select {
		case s.notices <- n:
		default:
		}
	}
}

// Notices returns the channel notices arrive on.
func (s *ChannelSession) Notices() <-chan Notice {
	return s.notices
}

// Done returns the done channel.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as done. Safe to call multiple times.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

type entry struct {
	handle   Handle
	activity Activity
	since    time.Time
}

// Entry is a read-only view of one registered session.
type Entry struct {
	ID       SessionID
	User     string
	Activity Activity
	Since    time.Time
}

// Registry tracks active sessions. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[SessionID]*entry
	now      func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[SessionID]*entry),
		now:      time.Now,
	}
}

// Register adds a session in the menu.
func (r *Registry) Register(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[h.ID()] = &entry{handle: h, activity: Activity{Screen: "menu"}, since: r.now()}
}

// Unregister removes a session.
func (r *Registry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get retrieves a session by ID.
func (r *Registry) Get(id SessionID) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return e.handle, true
}

// SetActivity records what a session is doing. Unknown IDs are ignored.
func (r *Registry) SetActivity(id SessionID, a Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[id]; ok {
		e.activity = a
	}
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Playing returns how many sessions are in a run.
func (r *Registry) Playing() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, e := range r.sessions {
		if e.activity.Screen == "game" {
			n++
		}
	}
	return n
}

// List returns every session, oldest first.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.sessions))
	for id, e := range r.sessions {
		out = append(out, Entry{ID: id, User: e.handle.User(), Activity: e.activity, Since: e.since})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Since.Equal(out[j].Since) {
			return out[i].Since.Before(out[j].Since)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Broadcast sends text to every session except from. Returns how many
// sessions it was sent to.
func (r *Registry) Broadcast(from SessionID, text string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := Notice{Text: text, At: r.now()}
	if e, ok := r.sessions[from]; ok {
		n.From = e.handle.User()
	}

	sent := 0
	for id, e := range r.sessions {
		if id == from {
			continue
		}
		e.handle.Send(n)
		sent++
	}
	return sent
}
