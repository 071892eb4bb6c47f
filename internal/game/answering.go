package game

import (
	"log/slog"

	"wouldyourather/internal/engine"
)

// AnsweringPhase asks each target which of their two options is true of
// them. One shared deadline covers everyone; unanswered questions proceed
// with no recorded choice.
type AnsweringPhase struct {
	engine.Base

	ctrl   RoundController
	rules  Rules
	logger *slog.Logger

	questions []*TargetedQuestion
	byTarget  map[*Player]*TargetedQuestion
	answered  map[*Player]bool
	deadline  engine.Timer
}

// NewAnsweringPhase creates the answering phase over the round's questions.
func NewAnsweringPhase(questions []*TargetedQuestion, ctrl RoundController, rules Rules, logger *slog.Logger) *AnsweringPhase {
	byTarget := make(map[*Player]*TargetedQuestion, len(questions))
	for _, q := range questions {
		byTarget[q.Target] = q
	}
	return &AnsweringPhase{
		ctrl:      ctrl,
		rules:     rules,
		logger:    logger,
		questions: questions,
		byTarget:  byTarget,
		answered:  make(map[*Player]bool),
	}
}

// OnEnter implements engine.Phase.
func (a *AnsweringPhase) OnEnter() {
	for _, q := range a.questions {
		if q.Answered() {
			q.Target.Invoke(NewWait())
			continue
		}
		q.Target.Invoke(Outbound{
			Type: OutPromptAnswer,
			Payload: &AnswerPromptPayload{
				OptionA:          q.OptionA.Text,
				OptionB:          q.OptionB.Text,
				TimeLimitSeconds: a.rules.promptSeconds(),
			},
		})
	}

	a.deadline = a.Schedule(a.rules.PromptTimeout, a.toGuessing)
}

// OnExit implements engine.Phase.
func (a *AnsweringPhase) OnExit() {
	a.deadline.Cancel()
}

// HandleEvent implements engine.Phase.
func (a *AnsweringPhase) HandleEvent(ev engine.Event) bool {
	submit, ok := ev.(SubmitAnswerEvent)
	if !ok {
		return false
	}

	q, ok := a.byTarget[submit.Player]
	if !ok {
		return false
	}
	// Re-submissions are ignored rather than rejected; the first choice
	// stands for the rest of the round.
	if !q.Answer(submit.Choice) {
		return false
	}

	submit.Player.Invoke(NewWait())
	a.answered[submit.Player] = true

	if len(a.answered) == len(a.questions) {
		a.toGuessing()
	}
	return true
}

func (a *AnsweringPhase) toGuessing() {
	a.Replace(NewGuessingMasterPhase(a.questions, a.ctrl, a.rules, a.logger))
}
