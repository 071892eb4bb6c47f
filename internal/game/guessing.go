package game

import (
	"log/slog"

	"wouldyourather/internal/engine"
)

// GuessingMasterPhase sequences the guessing rounds: it pops one targeted
// question at a time into a child Guessing phase and, when the queue is
// empty, tells Playing to advance the round counter. It never talks to
// players itself.
type GuessingMasterPhase struct {
	engine.Base

	ctrl   RoundController
	rules  Rules
	logger *slog.Logger

	queue []*TargetedQuestion
}

// NewGuessingMasterPhase creates the sequencer over the round's questions.
func NewGuessingMasterPhase(queue []*TargetedQuestion, ctrl RoundController, rules Rules, logger *slog.Logger) *GuessingMasterPhase {
	return &GuessingMasterPhase{
		ctrl:   ctrl,
		rules:  rules,
		logger: logger,
		queue:  queue,
	}
}

// OnEnter implements engine.Phase.
func (g *GuessingMasterPhase) OnEnter() {
	g.next()
}

// OnExit implements engine.Phase.
func (g *GuessingMasterPhase) OnExit() {}

// HandleEvent implements engine.Phase.
func (g *GuessingMasterPhase) HandleEvent(ev engine.Event) bool {
	switch ev.(type) {
	case ContinueEvent:
		g.next()
		return true
	default:
		return false
	}
}

func (g *GuessingMasterPhase) next() {
	if len(g.queue) == 0 {
		g.EmitToParent(ContinueEvent{})
		return
	}

	q := g.queue[0]
	g.queue = g.queue[1:]
	g.Push(NewGuessingPhase(q, make(map[*Player]Choice), g.ctrl, g.rules, g.logger))
}

// GuessingPhase collects everyone's guess for one question. Guesses may be
// changed until the shared deadline fires; the target may guess on their
// own question.
type GuessingPhase struct {
	engine.Base

	ctrl   RoundController
	rules  Rules
	logger *slog.Logger

	question *TargetedQuestion
	guesses  map[*Player]Choice
	deadline engine.Timer
}

// NewGuessingPhase creates a guessing phase for one question. Guesses may
// carry previously recorded selections, which are echoed back in prompts.
func NewGuessingPhase(question *TargetedQuestion, guesses map[*Player]Choice, ctrl RoundController, rules Rules, logger *slog.Logger) *GuessingPhase {
	return &GuessingPhase{
		ctrl:     ctrl,
		rules:    rules,
		logger:   logger,
		question: question,
		guesses:  guesses,
	}
}

// OnEnter implements engine.Phase.
func (g *GuessingPhase) OnEnter() {
	for _, player := range g.ctrl.Players() {
		player.Invoke(Outbound{
			Type: OutPromptGuess,
			Payload: &GuessPromptPayload{
				Question: GuessQuestion{
					TargetName: g.question.Target.Name,
					OptionA:    g.question.OptionA.Text,
					OptionB:    g.question.OptionB.Text,
				},
				Selected:         string(g.guesses[player]),
				TimeLimitSeconds: g.rules.promptSeconds(),
			},
		})
	}

	g.deadline = g.Schedule(g.rules.PromptTimeout, func() {
		g.Replace(NewScoringPhase(g.question, g.guesses, g.ctrl, g.rules, g.logger))
	})
}

// OnExit implements engine.Phase.
func (g *GuessingPhase) OnExit() {
	g.deadline.Cancel()
}

// HandleEvent implements engine.Phase.
func (g *GuessingPhase) HandleEvent(ev engine.Event) bool {
	guess, ok := ev.(SelectGuessEvent)
	if !ok {
		return false
	}
	if !guess.Choice.Valid() {
		return false
	}
	// Last write wins until the deadline.
	g.guesses[guess.Player] = guess.Choice
	return true
}
