package multiplayer

import (
	"sync"
	"sync/atomic"
)

// SessionHandle is how the coordinator and running matches reach one
// connected player, independent of SSH or Bubble Tea.
type SessionHandle interface {
	ID() SessionID

	// Send queues an event for the session. It never blocks.
	Send(evt SessionEvent)

	// Done is closed when the player disconnects.
	Done() <-chan struct{}
}

const defaultSessionBuffer = 64

// ChannelSession delivers events to a Bubble Tea program through a
// buffered channel. A match sends a snapshot every tick, so when the
// reader falls behind the oldest queued snapshot is discarded first;
// lobby and match events are only dropped when nothing else is left.
type ChannelSession struct {
	id     SessionID
	events chan SessionEvent
	done   chan struct{}

	sendMu   sync.Mutex
	doneOnce sync.Once
	dropped  atomic.Int64
}

// NewChannelSession creates a session with room for size queued events.
func NewChannelSession(id SessionID, size int) *ChannelSession {
	if size < 1 {
		size = defaultSessionBuffer
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, size),
		done:   make(chan struct{}),
	}
}

func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send queues evt. Events sent after Close are discarded.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	select {
	case s.events <- evt:
		return
	default:
	}

	s.makeRoom()
	select {
	case s.events <- evt:
	default:
		s.dropped.Add(1)
	}
}

// makeRoom frees one slot, preferring the oldest snapshot. The reader may
// drain the channel concurrently, so the queue is taken out and put back
// in order under sendMu.
func (s *ChannelSession) makeRoom() {
	var queued []SessionEvent
	for {
		select {
		case evt := <-s.events:
			queued = append(queued, evt)
			continue
		default:
		}
		break
	}
	if len(queued) == 0 {
		return
	}

	drop := 0
	for i, evt := range queued {
		if _, ok := evt.(SnapshotEvent); ok {
			drop = i
			break
		}
	}
	s.dropped.Add(1)
	for i, evt := range queued {
		if i == drop {
			continue
		}
		s.events <- evt
	}
}

// Events is read by the session's UI. Only one reader should consume it.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Dropped reports how many events were discarded because the buffer was full.
func (s *ChannelSession) Dropped() int64 {
	return s.dropped.Load()
}

// Close marks the session as disconnected. It may be called more than once.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() { close(s.done) })
}

// SessionRegistry maps session IDs to the connected players' handles.
// It is safe for concurrent use.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[SessionID]SessionHandle)}
}

// Register adds a session, replacing any earlier one with the same ID.
func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	r.sessions[session.ID()] = session
	r.mu.Unlock()
}

func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Get looks a session up by ID.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of connected sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
