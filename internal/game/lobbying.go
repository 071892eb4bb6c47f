package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"wouldyourather/internal/engine"
)

// LobbyingPhase is the initial phase: it accumulates players until someone
// starts the game.
type LobbyingPhase struct {
	engine.Base

	rules  Rules
	rng    *rand.Rand
	logger *slog.Logger

	players []*Player
}

// NewLobbyingPhase creates a lobby. Seed carries players returning from a
// finished game; pass nil for a fresh room.
func NewLobbyingPhase(rules Rules, rng *rand.Rand, logger *slog.Logger, seed []*Player) *LobbyingPhase {
	l := &LobbyingPhase{
		rules:  rules,
		rng:    rng,
		logger: logger,
	}
	l.players = append(l.players, seed...)
	return l
}

// OnEnter implements engine.Phase.
func (l *LobbyingPhase) OnEnter() {
	l.logger.Debug("lobby open", "players", len(l.players))
}

// OnExit implements engine.Phase.
func (l *LobbyingPhase) OnExit() {}

// HandleEvent implements engine.Phase.
func (l *LobbyingPhase) HandleEvent(ev engine.Event) bool {
	switch ev := ev.(type) {
	case JoinEvent:
		l.addPlayer(ev.Player)
		return true
	case LeaveEvent:
		l.removePlayer(ev.Player)
		return true
	case StartGameEvent:
		l.startGame(ev.Player)
		return true
	default:
		return false
	}
}

func (l *LobbyingPhase) addPlayer(p *Player) {
	for _, existing := range l.players {
		if existing == p {
			return
		}
	}
	l.players = append(l.players, p)
	l.logger.Info("player joined lobby", "player", p.Name, "count", len(l.players))
}

func (l *LobbyingPhase) removePlayer(p *Player) {
	for i, existing := range l.players {
		if existing == p {
			l.players = append(l.players[:i], l.players[i+1:]...)
			l.logger.Info("player left lobby", "player", p.Name, "count", len(l.players))
			return
		}
	}
}

func (l *LobbyingPhase) startGame(requester *Player) {
	if len(l.players) < l.rules.MinPlayers {
		requester.Invoke(NewError(fmt.Sprintf("Need at least %d players to start.", l.rules.MinPlayers)))
		return
	}

	players := make([]*Player, len(l.players))
	copy(players, l.players)

	l.logger.Info("game starting", "players", len(players))
	l.Replace(NewPlayingPhase(players, l.rules, l.rng, l.logger))
}
