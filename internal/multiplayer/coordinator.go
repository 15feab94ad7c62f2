package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-gorillas/internal/core"
)

// Lobby represents a waiting room for a match.
type Lobby struct {
	Code       string
	GameID     string
	Host       SessionHandle
	HostName   string
	Joiner     SessionHandle
	JoinerName string
	CreatedAt  time.Time
}

// rematchOffer keeps the players of a completed match together until both
// ask for a rematch, one of them leaves, or the offer expires.
type rematchOffer struct {
	info    MatchInfo
	host    SessionHandle
	joiner  SessionHandle
	ready   map[SessionID]bool
	endedAt time.Time
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // How long an empty lobby or an unanswered rematch lives
	TickRate      int           // Game tick rate (Hz); 0 uses the game's own rate
	CleanupPeriod time.Duration // How often to clean up expired lobbies
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		TickRate:      0,
		CleanupPeriod: 30 * time.Second,
	}
}

// GameFactory creates game instances for matches.
type GameFactory func(gameID string, cfg core.RuntimeConfig) (OnlineGame, error)

// MatchResultSaver is an interface for saving match results.
// This allows the coordinator to save results without depending on the storage package.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData contains match result data for persistence.
type MatchResultData struct {
	MatchID        string
	GameID         string
	Player1Session string
	Player2Session string
	Player1Name    string
	Player2Name    string
	Score1         int
	Score2         int
	WinnerSession  string
	EndReason      string
	DurationSecs   int
}

// Coordinator manages lobbies and active matches.
type Coordinator struct {
	config      CoordinatorConfig
	gameFactory GameFactory
	sessions    *SessionRegistry
	resultSaver MatchResultSaver // Optional, can be nil
	observer    SnapshotObserver // Optional, can be nil
	logger      *log.Logger

	mu        sync.RWMutex
	lobbies   map[string]*Lobby        // code -> lobby
	matches   map[MatchID]*OnlineMatch // matchID -> match
	rematches map[MatchID]*rematchOffer

	// Track which session is in which lobby/match
	sessionLobby   map[SessionID]string  // sessionID -> lobby code
	sessionMatch   map[SessionID]MatchID // sessionID -> matchID
	sessionRematch map[SessionID]MatchID // sessionID -> ended matchID

	// Message channel for async processing
	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
}

// NewCoordinator creates a new coordinator.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, sessions *SessionRegistry) *Coordinator {
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = DefaultCoordinatorConfig().CleanupPeriod
	}
	return &Coordinator{
		config:         cfg,
		gameFactory:    factory,
		sessions:       sessions,
		logger:         log.WithPrefix("coordinator"),
		lobbies:        make(map[string]*Lobby),
		matches:        make(map[MatchID]*OnlineMatch),
		rematches:      make(map[MatchID]*rematchOffer),
		sessionLobby:   make(map[SessionID]string),
		sessionMatch:   make(map[SessionID]MatchID),
		sessionRematch: make(map[SessionID]MatchID),
		msgChan:        make(chan CoordinatorMessage, 256),
		done:           make(chan struct{}),
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// SetObserver sets the optional observer of all match snapshots.
// Must be called before Start.
func (c *Coordinator) SetObserver(o SnapshotObserver) {
	c.observer = o
}

// SetLogger replaces the coordinator's logger.
func (c *Coordinator) SetLogger(l *log.Logger) {
	if l != nil {
		c.logger = l
	}
}

// Start begins the coordinator's background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts down the coordinator and every running match.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.mu.RLock()
		for _, m := range c.matches {
			m.Stop()
		}
		c.mu.RUnlock()
	})
}

// Send sends a message to the coordinator for async processing.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

// processMessages handles incoming messages.
func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveLobbyMsg:
		c.handleLeaveLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case PlayerInputMsg:
		c.handlePlayerInput(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	case ReadyForRematchMsg:
		c.handleReadyForRematch(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	if _, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}
	c.dropRematchLocked(msg.SessionID)

	code := c.generateUniqueCode()
	lobby := &Lobby{
		Code:      code,
		GameID:    msg.GameID,
		Host:      session,
		HostName:  nameOr(msg.Name, "Player 1"),
		CreatedAt: time.Now(),
	}

	c.lobbies[code] = lobby
	c.sessionLobby[msg.SessionID] = code
	c.mu.Unlock()

	c.logger.Info("lobby created", "code", code, "game", msg.GameID, "host", lobby.HostName)
	session.Send(LobbyCreatedEvent{Code: code, GameID: msg.GameID})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	if !exists {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}
	if lobby.Joiner != nil {
		session.Send(LobbyErrorEvent{Message: "Lobby is full"})
		return
	}
	if lobby.Host.ID() == msg.SessionID {
		session.Send(LobbyErrorEvent{Message: "Cannot join your own lobby"})
		return
	}
	c.dropRematchLocked(msg.SessionID)

	lobby.Joiner = session
	lobby.JoinerName = nameOr(msg.Name, "Player 2")
	c.sessionLobby[msg.SessionID] = code

	lobby.Host.Send(LobbyJoinedEvent{
		Code:         code,
		Side:         Player1,
		OpponentID:   msg.SessionID,
		OpponentName: lobby.JoinerName,
	})
	session.Send(LobbyJoinedEvent{
		Code:         code,
		Side:         Player2,
		OpponentID:   lobby.Host.ID(),
		OpponentName: lobby.HostName,
	})

	delete(c.sessionLobby, lobby.Host.ID())
	delete(c.sessionLobby, lobby.Joiner.ID())
	delete(c.lobbies, lobby.Code)

	c.startMatchLocked(MatchInfo{
		Code:   lobby.Code,
		GameID: lobby.GameID,
		Names:  [2]string{lobby.HostName, lobby.JoinerName},
	}, lobby.Host, lobby.Joiner, false)
}

// startMatchLocked creates and runs a match between host (Player1) and
// joiner (Player2). Must be called with the lock held.
func (c *Coordinator) startMatchLocked(info MatchInfo, host, joiner SessionHandle, rematch bool) {
	info.ID = MatchID(fmt.Sprintf("match-%s-%d", info.Code, time.Now().UnixNano()))
	info.StartedAt = time.Now()

	cfg := core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: c.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	game, err := c.gameFactory(info.GameID, cfg)
	if err != nil {
		c.logger.Error("failed to create game", "game", info.GameID, "err", err)
		host.Send(LobbyErrorEvent{Message: "Failed to create game"})
		joiner.Send(LobbyErrorEvent{Message: "Failed to create game"})
		return
	}
	cfg = core.ResolveTickRate(cfg, game)
	game.SetPlayerNames(info.Names[0], info.Names[1])

	match := NewOnlineMatch(info, game, host, joiner, cfg.TickRate)
	if c.observer != nil {
		match.SetObserver(c.observer)
	}

	c.matches[info.ID] = match
	c.sessionMatch[host.ID()] = info.ID
	c.sessionMatch[joiner.ID()] = info.ID

	host.Send(MatchStartedEvent{MatchID: info.ID, Side: Player1, Code: info.Code, Names: info.Names, Rematch: rematch})
	joiner.Send(MatchStartedEvent{MatchID: info.ID, Side: Player2, Code: info.Code, Names: info.Names, Rematch: rematch})
	c.logger.Info("match started", "match", info.ID, "players", info.Names, "tick_rate", cfg.TickRate, "rematch", rematch)

	matchID := info.ID
	go match.Run(func(result MatchResult) {
		c.handleMatchEnded(matchID, result)
	})
}

func (c *Coordinator) handleMatchEnded(matchID MatchID, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, exists := c.matches[matchID]
	if !exists {
		return
	}
	info := match.Info()
	p1, p2 := match.player1Session, match.player2Session

	if c.resultSaver != nil {
		winnerSession := ""
		switch result.Winner {
		case Player1:
			winnerSession = string(p1.ID())
		case Player2:
			winnerSession = string(p2.ID())
		}

		tickRate := max(1, match.TickRate())
		resultData := MatchResultData{
			MatchID:        string(matchID),
			GameID:         info.GameID,
			Player1Session: string(p1.ID()),
			Player2Session: string(p2.ID()),
			Player1Name:    info.Names[0],
			Player2Name:    info.Names[1],
			Score1:         result.Score1,
			Score2:         result.Score2,
			WinnerSession:  winnerSession,
			EndReason:      result.Reason.String(),
			DurationSecs:   int(result.Ticks / uint64(tickRate)), //nolint:gosec // tickRate is clamped positive
		}
		saver := c.resultSaver
		logger := c.logger
		go func() {
			if err := saver.SaveMatchResult(resultData); err != nil {
				logger.Warn("failed to save match result", "match", matchID, "err", err)
			}
		}()
	}

	delete(c.sessionMatch, p1.ID())
	delete(c.sessionMatch, p2.ID())
	delete(c.matches, matchID)

	if result.Reason == MatchEndReasonCompleted {
		c.rematches[matchID] = &rematchOffer{
			info:    info,
			host:    p1,
			joiner:  p2,
			ready:   make(map[SessionID]bool),
			endedAt: time.Now(),
		}
		c.sessionRematch[p1.ID()] = matchID
		c.sessionRematch[p2.ID()] = matchID
	}

	c.logger.Info("match ended", "match", matchID, "reason", result.Reason, "winner", result.Winner,
		"score", fmt.Sprintf("%d-%d", result.Score1, result.Score2))

	endEvent := MatchEndedEvent{
		MatchID: matchID,
		Reason:  result.Reason,
		Winner:  result.Winner,
		Score1:  result.Score1,
		Score2:  result.Score2,
	}
	p1.Send(endEvent)
	p2.Send(endEvent)
}

func (c *Coordinator) handleReadyForRematch(msg ReadyForRematchMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	offer, ok := c.rematches[msg.MatchID]
	if !ok {
		if s, found := c.sessions.Get(msg.SessionID); found {
			s.Send(RematchDeclinedEvent{MatchID: msg.MatchID})
		}
		return
	}

	var me, other SessionHandle
	name := ""
	switch msg.SessionID {
	case offer.host.ID():
		me, other, name = offer.host, offer.joiner, offer.info.Names[0]
	case offer.joiner.ID():
		me, other, name = offer.joiner, offer.host, offer.info.Names[1]
	default:
		return
	}
	offer.ready[me.ID()] = true

	if !offer.ready[other.ID()] {
		other.Send(RematchRequestedEvent{MatchID: msg.MatchID, From: name})
		return
	}

	c.removeRematchLocked(msg.MatchID)
	c.startMatchLocked(offer.info, offer.host, offer.joiner, true)
}

// dropRematchLocked withdraws any rematch offer sessionID is part of and
// tells the opponent. Must be called with the lock held.
func (c *Coordinator) dropRematchLocked(sessionID SessionID) {
	matchID, ok := c.sessionRematch[sessionID]
	if !ok {
		return
	}
	offer := c.rematches[matchID]
	c.removeRematchLocked(matchID)
	if offer == nil {
		return
	}
	for _, s := range []SessionHandle{offer.host, offer.joiner} {
		if s.ID() != sessionID {
			s.Send(RematchDeclinedEvent{MatchID: matchID})
		}
	}
}

func (c *Coordinator) removeRematchLocked(matchID MatchID) {
	offer, ok := c.rematches[matchID]
	if !ok {
		return
	}
	delete(c.rematches, matchID)
	for _, s := range []SessionHandle{offer.host, offer.joiner} {
		if c.sessionRematch[s.ID()] == matchID {
			delete(c.sessionRematch, s.ID())
		}
	}
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists {
		return
	}

	// Only host can cancel
	if lobby.Host.ID() != msg.SessionID {
		return
	}

	if lobby.Joiner != nil {
		lobby.Joiner.Send(MatchEndedEvent{
			Reason: MatchEndReasonHostLeft,
		})
		delete(c.sessionLobby, lobby.Joiner.ID())
	}

	delete(c.lobbies, msg.Code)
	delete(c.sessionLobby, msg.SessionID)
}

func (c *Coordinator) handleLeaveLobby(msg LeaveLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists {
		return
	}

	if lobby.Joiner != nil && lobby.Joiner.ID() == msg.SessionID {
		lobby.Joiner = nil
		lobby.JoinerName = ""
		delete(c.sessionLobby, msg.SessionID)
		lobby.Host.Send(LobbyPlayerLeftEvent{Code: msg.Code})
		return
	}

	// A leaving host closes the lobby.
	if lobby.Host.ID() == msg.SessionID {
		if lobby.Joiner != nil {
			lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
			delete(c.sessionLobby, lobby.Joiner.ID())
		}
		delete(c.lobbies, msg.Code)
		delete(c.sessionLobby, msg.SessionID)
	}
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.Lock()
	match, exists := c.matches[msg.MatchID]
	if !exists {
		// Leaving the result screen declines the rematch.
		c.dropRematchLocked(msg.SessionID)
	}
	c.mu.Unlock()

	if exists {
		match.PlayerDisconnected(msg.SessionID)
	}
}

func (c *Coordinator) handlePlayerInput(msg PlayerInputMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if !exists {
		return
	}

	match.SendInput(msg.Player, msg.Input)
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		if lobby, exists := c.lobbies[code]; exists {
			if lobby.Host.ID() == msg.SessionID {
				if lobby.Joiner != nil {
					lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
					delete(c.sessionLobby, lobby.Joiner.ID())
				}
				delete(c.lobbies, code)
			} else if lobby.Joiner != nil && lobby.Joiner.ID() == msg.SessionID {
				lobby.Joiner = nil
				lobby.JoinerName = ""
				lobby.Host.Send(LobbyPlayerLeftEvent{Code: code})
			}
		}
		delete(c.sessionLobby, msg.SessionID)
	}

	if matchID, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		if match, exists := c.matches[matchID]; exists {
			match.PlayerDisconnected(msg.SessionID)
		}
	}

	c.dropRematchLocked(msg.SessionID)
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for code, lobby := range c.lobbies {
		// Only expire lobbies without joiners
		if lobby.Joiner == nil && now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
		}
	}
	for id, offer := range c.rematches {
		if now.Sub(offer.endedAt) > c.config.LobbyTimeout {
			c.removeRematchLocked(id)
			offer.host.Send(RematchDeclinedEvent{MatchID: id})
			offer.joiner.Send(RematchDeclinedEvent{MatchID: id})
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character uppercase alphanumeric code.
func generateJoinCode() string {
	b := make([]byte, 4) // 4 bytes = 32 bits, base32 encodes to 8 chars, we take 6
	_, err := rand.Read(b)
	if err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	code := base32.StdEncoding.EncodeToString(b)[:6]
	return strings.ToUpper(code)
}

func nameOr(name, fallback string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return fallback
}

// GetLobby returns a lobby by code (for testing/debug).
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// GetMatch returns a match by ID (for testing/debug).
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// ActiveMatches lists running matches, oldest first.
func (c *Coordinator) ActiveMatches() []MatchInfo {
	c.mu.RLock()
	infos := make([]MatchInfo, 0, len(c.matches))
	for _, m := range c.matches {
		infos = append(infos, m.Info())
	}
	c.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].StartedAt.Before(infos[j].StartedAt)
	})
	return infos
}

// LobbyCount returns the number of active lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of active matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
