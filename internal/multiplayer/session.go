package multiplayer

import (
	"sync"
	"sync/atomic"
)

// SessionHandle is the transport-neutral interface for communicating with a session.
// It lets the coordinator push events without depending on websocket or Wish/Bubble Tea.
type SessionHandle interface {
	// ID returns the unique session identifier.
	ID() SessionID

	// Send sends an event to the session asynchronously.
	// Must be non-blocking; a slow client must never stall the simulation.
	Send(evt SessionEvent)

	// Done returns a channel that closes when the session ends.
	Done() <-chan struct{}
}

// ChannelSession is a SessionHandle implementation using Go channels.
// Both the websocket writer and the spectator TUI drain its Events channel.
type ChannelSession struct {
	id       SessionID
	events   chan SessionEvent
	done     chan struct{}
	doneOnce sync.Once
	dropped  atomic.Uint64
}

// NewChannelSession creates a new channel-based session handle.
// eventBufferSize controls how many events can be buffered before dropping.
func NewChannelSession(id SessionID, eventBufferSize int) *ChannelSession {
	if eventBufferSize < 1 {
		eventBufferSize = 64
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, eventBufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send queues an event for the session.
// If the buffer is full the oldest event is dropped to make room.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
	default:
		select {
		case <-s.events:
			s.dropped.Add(1)
		default:
		}
		select {
		case s.events <- evt:
		default:
			s.dropped.Add(1)
		}
	}
}

// Events returns the channel to receive events from.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

// Dropped returns how many events were discarded because the reader fell behind.
func (s *ChannelSession) Dropped() uint64 {
	return s.dropped.Load()
}

// Done returns the done channel.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as done.
// Safe to call multiple times.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry tracks sessions the coordinator broadcasts to, with their role.
// Thread-safe for concurrent access.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]registeredSession
}

type registeredSession struct {
	handle SessionHandle
	role   Role
}

// NewSessionRegistry creates a new session registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]registeredSession),
	}
}

// Register adds a session to the registry under the given role.
func (r *SessionRegistry) Register(session SessionHandle, role Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = registeredSession{handle: session, role: role}
}

// Unregister removes a session and returns the role it had.
func (r *SessionRegistry) Unregister(id SessionID) (Role, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return 0, false
	}
	delete(r.sessions, id)
	return s.role, true
}

// Count returns the number of registered sessions with the given role.
func (r *SessionRegistry) Count(role Role) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, s := range r.sessions {
		if s.role == role {
			n++
		}
	}
	return n
}

// Broadcast sends evt to every registered session.
func (r *SessionRegistry) Broadcast(evt SessionEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sessions {
		s.handle.Send(evt)
	}
}
