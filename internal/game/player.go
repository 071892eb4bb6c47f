// Package game implements the would-you-rather round lifecycle on top of
// the phase engine: players are paired to write scenarios about each other,
// targets answer, everyone guesses, and scores are ranked after each
// question.
package game

// Conn delivers outbound events to one player's connection. Delivery is
// fire-and-forget; the engine never waits on it.
type Conn interface {
	Send(ev Outbound) error
}

// Player is one participant. The transport layer creates players and shares
// them with the engine; the engine only holds references.
type Player struct {
	ID    string
	Name  string
	Admin bool
	conn  Conn
}

// NewPlayer creates a player bound to a connection. Admin marks the game
// creator.
func NewPlayer(id, name string, admin bool, conn Conn) *Player {
	return &Player{
		ID:    id,
		Name:  name,
		Admin: admin,
		conn:  conn,
	}
}

// Invoke sends an outbound event to the player, ignoring delivery failures.
func (p *Player) Invoke(ev Outbound) {
	if p.conn == nil {
		return
	}
	_ = p.conn.Send(ev)
}
