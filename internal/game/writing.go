package game

import (
	"log/slog"
	"unicode/utf8"

	"wouldyourather/internal/engine"
)

// minScenarioLength is the shortest accepted scenario text, in runes.
const minScenarioLength = 3

// WritingPhase walks every author through their scenario queue: prompt,
// collect or time out, repeat. When all scenarios are finalized it folds
// each target's two scenarios into a question and hands over to Answering.
type WritingPhase struct {
	engine.Base

	ctrl   RoundController
	rules  Rules
	logger *slog.Logger

	authors   []*Player
	scenarios map[*Player][]*Scenario
	pending   map[*Player]*writingPrompt
}

type writingPrompt struct {
	scenario *Scenario
	timer    engine.Timer
}

// NewWritingPhase creates the writing phase. Authors fixes the enumeration
// order; scenarios maps each author to their two unwritten scenarios.
func NewWritingPhase(authors []*Player, scenarios map[*Player][]*Scenario, ctrl RoundController, rules Rules, logger *slog.Logger) *WritingPhase {
	return &WritingPhase{
		ctrl:      ctrl,
		rules:     rules,
		logger:    logger,
		authors:   authors,
		scenarios: scenarios,
		pending:   make(map[*Player]*writingPrompt),
	}
}

// OnEnter implements engine.Phase.
func (w *WritingPhase) OnEnter() {
	for _, author := range w.authors {
		w.promptNext(author)
	}
	if len(w.pending) == 0 {
		w.toAnswering()
	}
}

// OnExit implements engine.Phase.
func (w *WritingPhase) OnExit() {
	for _, prompt := range w.pending {
		prompt.timer.Cancel()
	}
}

// HandleEvent implements engine.Phase.
func (w *WritingPhase) HandleEvent(ev engine.Event) bool {
	submit, ok := ev.(SubmitScenarioEvent)
	if !ok {
		return false
	}

	prompt, ok := w.pending[submit.Player]
	if !ok {
		return false
	}

	if utf8.RuneCountInString(submit.Text) < minScenarioLength {
		submit.Player.Invoke(NewError("The scenario must be at least 3 characters."))
		return true
	}

	prompt.scenario.SetText(submit.Text)
	prompt.timer.Cancel()
	delete(w.pending, submit.Player)

	w.promptNext(submit.Player)
	if len(w.pending) == 0 {
		w.toAnswering()
	}
	return true
}

// promptNext sends the author their next unwritten scenario, arming its
// deadline, or tells them to wait when their queue is done.
func (w *WritingPhase) promptNext(author *Player) {
	var next *Scenario
	for _, s := range w.scenarios[author] {
		if !s.Written() {
			next = s
			break
		}
	}
	if next == nil {
		author.Invoke(NewWait())
		return
	}

	author.Invoke(Outbound{
		Type: OutPromptScenario,
		Payload: &ScenarioPromptPayload{
			TargetName:       next.Target.Name,
			TimeLimitSeconds: w.rules.promptSeconds(),
		},
	})

	timer := w.Schedule(w.rules.PromptTimeout, func() {
		w.timeoutScenario(author)
	})
	w.pending[author] = &writingPrompt{scenario: next, timer: timer}
}

// timeoutScenario defaults an overdue scenario to empty text and moves the
// author along.
func (w *WritingPhase) timeoutScenario(author *Player) {
	prompt, ok := w.pending[author]
	if !ok {
		return
	}

	w.logger.Debug("scenario timed out", "author", author.Name)
	prompt.scenario.SetText("")
	delete(w.pending, author)

	w.promptNext(author)
	if len(w.pending) == 0 {
		w.toAnswering()
	}
}

// toAnswering folds each target's scenarios into a question and replaces
// this phase with Answering, staying under Playing.
func (w *WritingPhase) toAnswering() {
	options := make(map[*Player][]Option, len(w.authors))
	for _, author := range w.authors {
		options[author] = nil
	}
	for _, author := range w.authors {
		for _, s := range w.scenarios[author] {
			options[s.Target] = append(options[s.Target], s.Option())
		}
	}

	questions := make([]*TargetedQuestion, 0, len(w.authors))
	for _, target := range w.authors {
		opts := options[target]
		switch len(opts) {
		case 0:
			// Cannot happen with a valid assignment; nothing to ask.
			w.logger.Warn("target received no scenarios", "target", target.Name)
			continue
		case 1:
			// Defensive padding: offer the lone option twice.
			opts = append(opts, opts[0])
		}
		questions = append(questions, &TargetedQuestion{
			Question: &Question{OptionA: opts[0], OptionB: opts[1]},
			Target:   target,
		})
	}

	w.Replace(NewAnsweringPhase(questions, w.ctrl, w.rules, w.logger))
}
