package game

import (
	"log/slog"
	"math/rand"

	"wouldyourather/internal/engine"
)

// RoundController is the narrow view of the Playing phase that descendant
// phases use to reach round-wide state. Players returns a copy; Scores
// returns the live table so Scoring can mutate it in place.
type RoundController interface {
	Players() []*Player
	Scores() *ScoreTable
}

// PlayingPhase owns a whole game: the player set, the score table and the
// round counter. Each round it pairs authors with targets and pushes the
// Writing phase beneath itself.
type PlayingPhase struct {
	engine.Base

	rules  Rules
	rng    *rand.Rand
	logger *slog.Logger

	players []*Player
	scores  *ScoreTable
	round   int
}

// NewPlayingPhase creates the round controller for the given players.
func NewPlayingPhase(players []*Player, rules Rules, rng *rand.Rand, logger *slog.Logger) *PlayingPhase {
	return &PlayingPhase{
		rules:   rules,
		rng:     rng,
		logger:  logger,
		players: players,
		scores:  NewScoreTable(),
	}
}

// Players implements RoundController.
func (p *PlayingPhase) Players() []*Player {
	players := make([]*Player, len(p.players))
	copy(players, p.players)
	return players
}

// Scores implements RoundController.
func (p *PlayingPhase) Scores() *ScoreTable {
	return p.scores
}

// Round returns the current round number, starting at 1.
func (p *PlayingPhase) Round() int {
	return p.round
}

// OnEnter implements engine.Phase.
func (p *PlayingPhase) OnEnter() {
	for _, player := range p.players {
		p.scores.Register(player)
	}
	p.startRound()
}

// OnExit implements engine.Phase.
func (p *PlayingPhase) OnExit() {}

// HandleEvent implements engine.Phase.
func (p *PlayingPhase) HandleEvent(ev engine.Event) bool {
	switch ev.(type) {
	case ContinueEvent:
		if p.round >= p.rules.Rounds {
			p.finishGame()
		} else {
			p.startRound()
		}
		return true
	default:
		return false
	}
}

func (p *PlayingPhase) startRound() {
	p.round++
	p.logger.Info("round starting", "round", p.round)

	targets, err := AssignTargets(p.players, p.rng)
	if err != nil {
		// Unreachable once the lobby gates the start; log and stall
		// rather than corrupt the round.
		p.logger.Error("target assignment failed", "error", err)
		return
	}

	scenarios := make(map[*Player][]*Scenario, len(p.players))
	for _, author := range p.players {
		pair := targets[author]
		scenarios[author] = []*Scenario{
			{Author: author, Target: pair[0]},
			{Author: author, Target: pair[1]},
		}
	}

	p.Push(NewWritingPhase(p.players, scenarios, p, p.rules, p.logger))
}

// finishGame broadcasts final standings and returns everyone to the lobby.
func (p *PlayingPhase) finishGame() {
	p.logger.Info("game finished", "rounds", p.round)

	ranking := p.scores.Ranking()
	standings := make([]PlayerResult, 0, len(ranking))
	// Best first for the final screen.
	for i := len(ranking) - 1; i >= 0; i-- {
		standings = append(standings, PlayerResult{
			PlayerID:   ranking[i].Player.ID,
			PlayerName: ranking[i].Player.Name,
			TotalScore: ranking[i].Score,
		})
	}

	for _, player := range p.players {
		player.Invoke(Outbound{Type: OutGameOver, Payload: &GameOverPayload{Standings: standings}})
	}

	p.Replace(NewLobbyingPhase(p.rules, p.rng, p.logger, p.players))
}
