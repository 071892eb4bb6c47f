package app

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"wouldyourather/internal/engine"
	"wouldyourather/internal/game"
)

const (
	// Size of the job queue feeding the session loop
	jobQueueSize = 256
)

// ClientConnection represents a connected client.
type ClientConnection interface {
	Send(ev game.Outbound) error
	Close() error
}

// Session runs one game instance. All engine work — inbound events and
// firing deadlines — funnels through a single job queue consumed by one
// goroutine, which gives the game its strict event ordering.
type Session struct {
	code      string
	createdAt time.Time
	logger    *slog.Logger

	runner *engine.Runner
	jobs   chan func()
	done   chan struct{}
	closed sync.Once

	mu      sync.RWMutex
	players map[string]*game.Player
	clients map[string]ClientConnection
}

// NewSession creates a session, starts its loop, and enters the lobby.
func NewSession(code string, rules game.Rules, logger *slog.Logger) *Session {
	s := &Session{
		code:      code,
		createdAt: time.Now(),
		logger:    logger.With("roomCode", code),
		jobs:      make(chan func(), jobQueueSize),
		done:      make(chan struct{}),
		players:   make(map[string]*game.Player),
		clients:   make(map[string]ClientConnection),
	}

	clock := engine.NewClock(s.enqueue)
	s.runner = engine.NewRunner(clock, s.logger)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	root := game.NewLobbyingPhase(rules, rng, s.logger, nil)

	go s.loop()
	s.enqueue(func() {
		s.runner.Start(root)
	})

	return s
}

// Code returns the room code.
func (s *Session) Code() string {
	return s.code
}

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// PlayerCount returns the number of players known to the session.
func (s *Session) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

// Join creates a player for the connection and announces them to the game.
// The first player to join becomes the admin.
func (s *Session) Join(playerID, name string, conn ClientConnection) *game.Player {
	s.mu.Lock()
	admin := len(s.players) == 0
	player := game.NewPlayer(playerID, name, admin, conn)
	s.players[playerID] = player
	s.clients[playerID] = conn
	s.mu.Unlock()

	s.logger.Info("player joined", "playerID", playerID, "name", name, "admin", admin)

	s.enqueue(func() {
		s.runner.Dispatch(game.JoinEvent{Player: player})
	})
	return player
}

// Leave announces a departing player and forgets their connection.
func (s *Session) Leave(playerID string) {
	s.mu.Lock()
	player, ok := s.players[playerID]
	if ok {
		delete(s.players, playerID)
		delete(s.clients, playerID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	s.logger.Info("player left", "playerID", playerID)

	s.enqueue(func() {
		s.runner.Dispatch(game.LeaveEvent{Player: player})
	})
}

// StartGame asks the game to begin on behalf of a player.
func (s *Session) StartGame(playerID string) error {
	return s.dispatchAs(playerID, func(p *game.Player) engine.Event {
		return game.StartGameEvent{Player: p}
	})
}

// SubmitScenario records an authored scenario text.
func (s *Session) SubmitScenario(playerID, text string) error {
	return s.dispatchAs(playerID, func(p *game.Player) engine.Event {
		return game.SubmitScenarioEvent{Player: p, Text: text}
	})
}

// SubmitAnswer records a target's answer to their own question.
func (s *Session) SubmitAnswer(playerID string, choice game.Choice) error {
	if !choice.Valid() {
		return game.ErrInvalidChoice
	}
	return s.dispatchAs(playerID, func(p *game.Player) engine.Event {
		return game.SubmitAnswerEvent{Player: p, Choice: choice}
	})
}

// SelectGuess records a guess about the current question.
func (s *Session) SelectGuess(playerID string, choice game.Choice) error {
	if !choice.Valid() {
		return game.ErrInvalidChoice
	}
	return s.dispatchAs(playerID, func(p *game.Player) engine.Event {
		return game.SelectGuessEvent{Player: p, Choice: choice}
	})
}

// dispatchAs resolves the player and queues an attributed event.
func (s *Session) dispatchAs(playerID string, build func(*game.Player) engine.Event) error {
	s.mu.RLock()
	player, ok := s.players[playerID]
	s.mu.RUnlock()

	if !ok {
		return game.ErrPlayerNotFound
	}

	s.enqueue(func() {
		s.runner.Dispatch(build(player))
	})
	return nil
}

// Close stops the engine and closes every connection. Safe to call twice.
func (s *Session) Close() {
	s.closed.Do(func() {
		s.enqueue(func() {
			s.runner.Stop()
			close(s.done)
		})

		s.mu.Lock()
		for _, client := range s.clients {
			client.Close()
		}
		s.clients = make(map[string]ClientConnection)
		s.players = make(map[string]*game.Player)
		s.mu.Unlock()
	})
}

// enqueue hands fn to the session loop, preserving submission order.
// Jobs arriving after shutdown are dropped.
func (s *Session) enqueue(fn func()) {
	select {
	case <-s.done:
	case s.jobs <- fn:
	}
}

// loop is the single goroutine that touches the engine.
func (s *Session) loop() {
	for {
		select {
		case <-s.done:
			return
		case fn := <-s.jobs:
			fn()
		}
	}
}
