package ws

import "encoding/json"

// MessageType represents the type of client-to-server message.
type MessageType string

// Client → Server message types
const (
	MsgStartGame      MessageType = "start_game"
	MsgSubmitScenario MessageType = "submit_scenario"
	MsgSubmitAnswer   MessageType = "submit_answer"
	MsgSelectGuess    MessageType = "select_guess"
	MsgLeave          MessageType = "leave"
	MsgPing           MessageType = "ping"
)

// ClientMessage represents a message from client to server. Payloads are
// decoded per message type.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SubmitScenarioPayload is the payload for submit_scenario.
type SubmitScenarioPayload struct {
	Text string `json:"scenarioText"`
}

// ChoicePayload is the payload for submit_answer and select_guess.
type ChoicePayload struct {
	Choice string `json:"choice"`
}
