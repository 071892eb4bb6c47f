package game

// Inbound events, dispatched through the phase chain. Events attributed to
// a player carry the resolved *Player; the transport validates and maps raw
// messages before anything reaches the engine. An event no active phase
// understands is silently dropped.

// JoinEvent announces a new participant.
type JoinEvent struct {
	Player *Player
}

// LeaveEvent announces a departing participant.
type LeaveEvent struct {
	Player *Player
}

// StartGameEvent asks to begin playing. Admin gating happens at the
// transport boundary, not here.
type StartGameEvent struct {
	Player *Player
}

// SubmitScenarioEvent carries an authored scenario text.
type SubmitScenarioEvent struct {
	Player *Player
	Text   string
}

// SubmitAnswerEvent carries a target's choice for their own question.
type SubmitAnswerEvent struct {
	Player *Player
	Choice Choice
}

// SelectGuessEvent carries a guess about the current question's target.
type SelectGuessEvent struct {
	Player *Player
	Choice Choice
}

// ContinueEvent signals a finished sub-phase: Scoring emits it to advance
// the guessing queue, GuessingMaster emits it to advance the round counter.
type ContinueEvent struct{}
