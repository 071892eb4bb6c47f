package game

// OutboundType represents the type of server-to-client event.
type OutboundType string

const (
	OutError          OutboundType = "error"
	OutWait           OutboundType = "wait"
	OutConnected      OutboundType = "connected"
	OutDisconnected   OutboundType = "disconnected"
	OutPromptScenario OutboundType = "prompt_submit_scenario"
	OutPromptAnswer   OutboundType = "prompt_answer_question"
	OutPromptGuess    OutboundType = "prompt_select_guess"
	OutDisplayResults OutboundType = "display_results"
	OutGameOver       OutboundType = "game_over"
)

// Outbound is one server-to-client event, delivered through the Player
// capability and marshaled as-is by the transport.
type Outbound struct {
	Type    OutboundType `json:"type"`
	Payload interface{}  `json:"payload,omitempty"`
}

// Payload types for outbound events

// ErrorPayload reports a rejected action to the offending player.
type ErrorPayload struct {
	Message string `json:"message"`
}

// ConnectedPayload confirms a join, sent by the transport.
type ConnectedPayload struct {
	PlayerID string `json:"playerId"`
	RoomCode string `json:"roomCode"`
}

// DisconnectedPayload tells a player they left the game.
type DisconnectedPayload struct {
	Reason string `json:"reason"`
}

// ScenarioPromptPayload asks an author to write about a target.
type ScenarioPromptPayload struct {
	TargetName       string `json:"targetPlayerName"`
	TimeLimitSeconds int    `json:"timeLimitSeconds"`
}

// AnswerPromptPayload asks a target to pick one of their two options.
type AnswerPromptPayload struct {
	OptionA          string `json:"optionA"`
	OptionB          string `json:"optionB"`
	TimeLimitSeconds int    `json:"timeLimitSeconds"`
}

// GuessQuestion describes the question being guessed on.
type GuessQuestion struct {
	TargetName string `json:"targetPlayerName"`
	OptionA    string `json:"optionA"`
	OptionB    string `json:"optionB"`
}

// GuessPromptPayload asks every player to guess the target's answer.
// Selected carries a previously recorded guess, empty if none.
type GuessPromptPayload struct {
	Question         GuessQuestion `json:"question"`
	Selected         string        `json:"selectedGuess,omitempty"`
	TimeLimitSeconds int           `json:"timeLimitSeconds"`
}

// PlayerResult is one row of a scoring update or final standing.
type PlayerResult struct {
	PlayerID       string `json:"playerId"`
	PlayerName     string `json:"playerName"`
	Correct        bool   `json:"isCorrect"`
	TotalScore     int    `json:"totalScore"`
	PositionChange int    `json:"positionChange"`
}

// ResultsPayload is broadcast after each question is scored.
type ResultsPayload struct {
	Results []PlayerResult `json:"results"`
}

// GameOverPayload carries the final standings, best first.
type GameOverPayload struct {
	Standings []PlayerResult `json:"standings"`
}

// NewError builds an error event.
func NewError(message string) Outbound {
	return Outbound{Type: OutError, Payload: &ErrorPayload{Message: message}}
}

// NewWait tells a player they have nothing to do right now.
func NewWait() Outbound {
	return Outbound{Type: OutWait}
}
