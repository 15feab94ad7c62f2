// Package spectate streams online matches to websocket spectators.
//
// The Hub is attached to the multiplayer coordinator as its snapshot
// observer. Spectators connect to /ws?code=ABC123 and receive one JSON
// message per published snapshot followed by a final "ended" message.
package spectate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"

	"github.com/vovakirdan/tui-gorillas/internal/multiplayer"
)

// Message types sent to spectators.
const (
	TypeSnapshot = "snapshot"
	TypeEnded    = "ended"
)

// maxSpectators caps viewers per match.
const maxSpectators = 32

// Message is the JSON frame sent to spectators.
type Message struct {
	Type     string                   `json:"type"`
	Match    multiplayer.MatchInfo    `json:"match"`
	Tick     uint64                   `json:"tick,omitempty"`
	Snapshot multiplayer.GameSnapshot `json:"snapshot,omitempty"`
	Result   *Result                  `json:"result,omitempty"`
}

// Result is the outcome of a finished match.
type Result struct {
	Reason string `json:"reason"`
	Winner string `json:"winner,omitempty"`
	Score1 int    `json:"score1"`
	Score2 int    `json:"score2"`
}

// LiveMatch is a listing entry for /matches.
type LiveMatch struct {
	multiplayer.MatchInfo
	Spectators int `json:"spectators"`
}

// HubStats holds live server metrics.
type HubStats struct {
	LiveMatches      int    `json:"liveMatches"`
	Spectators       int    `json:"spectators"`
	TotalConnections uint64 `json:"totalConnections"`
}

type feed struct {
	info       multiplayer.MatchInfo
	tick       uint64
	snap       multiplayer.GameSnapshot
	spectators map[*Conn]struct{}
}

// Hub fans match snapshots out to spectators.
type Hub struct {
	mu     sync.Mutex
	feeds  map[string]*feed // by join code
	nextID atomic.Uint64

	totalConnections atomic.Uint64

	originPatterns []string
	logger         *log.Logger
}

var _ multiplayer.SnapshotObserver = (*Hub)(nil)

// NewHub creates a hub. originPatterns restrict browser origins; nil
// allows only same-origin pages.
func NewHub(originPatterns []string, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		feeds:          make(map[string]*feed),
		originPatterns: originPatterns,
		logger:         logger.WithPrefix("spectate"),
	}
}

// PublishSnapshot implements multiplayer.SnapshotObserver.
func (h *Hub) PublishSnapshot(info multiplayer.MatchInfo, tick uint64, snap multiplayer.GameSnapshot) {
	var stale []*Conn
	h.mu.Lock()
	f, ok := h.feeds[info.Code]
	if !ok || f.info.ID != info.ID {
		// A rematch reuses the join code with a new match id
		if ok {
			stale = f.conns()
		}
		f = &feed{info: info, spectators: make(map[*Conn]struct{})}
		h.feeds[info.Code] = f
	}
	f.tick = tick
	f.snap = snap
	conns := f.conns()
	h.mu.Unlock()

	for _, c := range stale {
		c.Finish()
	}

	if len(conns) == 0 {
		return
	}
	data, err := encode(Message{Type: TypeSnapshot, Match: info, Tick: tick, Snapshot: snap})
	if err != nil {
		h.logger.Error("encode snapshot", "match", info.ID, "err", err)
		return
	}
	for _, c := range conns {
		c.Send(data)
	}
}

// MatchClosed implements multiplayer.SnapshotObserver.
func (h *Hub) MatchClosed(info multiplayer.MatchInfo, result multiplayer.MatchResult) {
	h.mu.Lock()
	f, ok := h.feeds[info.Code]
	if !ok || f.info.ID != info.ID {
		h.mu.Unlock()
		return
	}
	delete(h.feeds, info.Code)
	conns := f.conns()
	h.mu.Unlock()

	res := &Result{
		Reason: result.Reason.String(),
		Score1: result.Score1,
		Score2: result.Score2,
	}
	if result.Winner == multiplayer.Player1 || result.Winner == multiplayer.Player2 {
		res.Winner = info.Names[result.Winner.Index()]
	}
	data, err := encode(Message{Type: TypeEnded, Match: info, Tick: result.Ticks, Result: res})
	if err != nil {
		h.logger.Error("encode result", "match", info.ID, "err", err)
	}
	for _, c := range conns {
		if data != nil {
			c.Send(data)
		}
		c.Finish()
	}
	h.logger.Info("match closed", "code", info.Code, "reason", res.Reason, "spectators", len(conns))
}

func (f *feed) conns() []*Conn {
	out := make([]*Conn, 0, len(f.spectators))
	for c := range f.spectators {
		out = append(out, c)
	}
	return out
}

func encode(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("spectate: encode %s: %w", m.Type, err)
	}
	return data, nil
}

// Matches lists live matches, oldest first.
func (h *Hub) Matches() []LiveMatch {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]LiveMatch, 0, len(h.feeds))
	for _, f := range h.feeds {
		out = append(out, LiveMatch{MatchInfo: f.info, Spectators: len(f.spectators)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// Stats returns a snapshot of current hub metrics.
func (h *Hub) Stats() HubStats {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := HubStats{
		LiveMatches:      len(h.feeds),
		TotalConnections: h.totalConnections.Load(),
	}
	for _, f := range h.feeds {
		s.Spectators += len(f.spectators)
	}
	return s
}

// join registers c on the feed for code and returns the latest frame.
func (h *Hub) join(code string, c *Conn) ([]byte, error) {
	h.mu.Lock()
	f, ok := h.feeds[code]
	if !ok {
		h.mu.Unlock()
		return nil, fmt.Errorf("spectate: no live match %q", code)
	}
	f.spectators[c] = struct{}{}
	msg := Message{Type: TypeSnapshot, Match: f.info, Tick: f.tick, Snapshot: f.snap}
	h.mu.Unlock()

	if msg.Snapshot == nil {
		return nil, nil
	}
	return encode(msg)
}

func (h *Hub) leave(code string, c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if f, ok := h.feeds[code]; ok {
		delete(f.spectators, c)
	}
}

func (h *Hub) spectatorCount(code string) (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.feeds[code]
	if !ok {
		return 0, false
	}
	return len(f.spectators), true
}

// HandleWS upgrades a spectator connection for ?code=.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("code")))
	if code == "" {
		http.Error(w, "missing match code", http.StatusBadRequest)
		return
	}
	n, ok := h.spectatorCount(code)
	if !ok {
		http.Error(w, "no such match", http.StatusNotFound)
		return
	}
	if n >= maxSpectators {
		http.Error(w, "match is full of spectators", http.StatusTooManyRequests)
		return
	}

	acceptOpts := &websocket.AcceptOptions{}
	if len(h.originPatterns) > 0 {
		acceptOpts.OriginPatterns = h.originPatterns
	}
	ws, err := websocket.Accept(w, r, acceptOpts)
	if err != nil {
		h.logger.Warn("ws accept error", "err", err)
		return
	}
	// Spectators only listen
	ws.SetReadLimit(512)

	h.totalConnections.Add(1)
	conn := newConn(ws, fmt.Sprintf("spectator-%d", h.nextID.Add(1)), h.logger)

	first, err := h.join(code, conn)
	if err != nil {
		// The match ended between the lookup and the upgrade
		ws.Close(websocket.StatusGoingAway, "match ended")
		return
	}
	defer h.leave(code, conn)
	if first != nil {
		conn.Send(first)
	}
	h.logger.Info("spectator joined", "conn", conn.ID, "code", code, "remote", r.RemoteAddr)

	// Use background context so the connection outlives the handler's read side
	ctx := ws.CloseRead(context.Background())
	go conn.WriteLoop(ctx)

	select {
	case <-conn.Done():
	case <-ctx.Done():
		conn.Close()
	}
	h.logger.Info("spectator left", "conn", conn.ID, "code", code)
}

// Handler returns the HTTP routes: /ws, /matches and /health.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleWS)
	mux.HandleFunc("/matches", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(h.Matches())
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(h.Stats())
	})
	return mux
}
