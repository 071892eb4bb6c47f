package game

import (
	"log/slog"

	"wouldyourather/internal/engine"
)

// ScoringPhase settles one question: it awards a point to every correct
// guesser, computes leaderboard movement, broadcasts the results and, after
// the display pause, tells the guessing sequencer to continue.
type ScoringPhase struct {
	engine.Base

	ctrl   RoundController
	rules  Rules
	logger *slog.Logger

	question *TargetedQuestion
	guesses  map[*Player]Choice
	pause    engine.Timer
}

// NewScoringPhase creates the scoring phase for one settled question.
func NewScoringPhase(question *TargetedQuestion, guesses map[*Player]Choice, ctrl RoundController, rules Rules, logger *slog.Logger) *ScoringPhase {
	return &ScoringPhase{
		ctrl:     ctrl,
		rules:    rules,
		logger:   logger,
		question: question,
		guesses:  guesses,
	}
}

// OnEnter implements engine.Phase.
func (s *ScoringPhase) OnEnter() {
	scores := s.ctrl.Scores()

	correct := make(map[*Player]bool, len(s.guesses))
	for player, guess := range s.guesses {
		correct[player] = guess != "" && guess == s.question.Choice()
	}

	oldRanking := scores.Ranking()
	oldPositions := Positions(oldRanking)

	for player, isCorrect := range correct {
		if isCorrect {
			scores.Add(player, 1)
		}
	}

	newRanking := scores.Ranking()
	newPositions := Positions(newRanking)

	results := make([]PlayerResult, 0, len(newRanking))
	for _, standing := range newRanking {
		player := standing.Player
		results = append(results, PlayerResult{
			PlayerID:       player.ID,
			PlayerName:     player.Name,
			Correct:        correct[player],
			TotalScore:     standing.Score,
			PositionChange: newPositions[player] - oldPositions[player],
		})
	}

	s.logger.Debug("question scored",
		"target", s.question.Target.Name,
		"guesses", len(s.guesses),
	)

	payload := &ResultsPayload{Results: results}
	for _, player := range s.ctrl.Players() {
		player.Invoke(Outbound{Type: OutDisplayResults, Payload: payload})
	}

	s.pause = s.Schedule(s.rules.ResultsDelay, func() {
		s.EmitToParent(ContinueEvent{})
	})
}

// OnExit implements engine.Phase.
func (s *ScoringPhase) OnExit() {
	s.pause.Cancel()
}

// HandleEvent implements engine.Phase.
func (s *ScoringPhase) HandleEvent(ev engine.Event) bool {
	return false
}
