package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"wouldyourather/internal/app"
	"wouldyourather/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection. It implements both
// app.ClientConnection and the game's Conn capability.
type Client struct {
	conn     *websocket.Conn
	session  *app.Session
	playerID string
	send     chan []byte
	done     chan struct{}
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client.
func NewClient(conn *websocket.Conn, session *app.Session, playerID string, logger *slog.Logger) *Client {
	return &Client{
		conn:     conn,
		session:  session,
		playerID: playerID,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Send queues an outbound event for delivery.
func (c *Client) Send(ev game.Outbound) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped", "playerID", c.playerID)
		return nil
	}
}

// Close implements app.ClientConnection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection.
func (c *Client) readPump() {
	defer func() {
		c.session.Leave(c.playerID)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage validates an incoming message and hands it to the session.
// Events the game does not expect in its current phase are dropped there;
// events that fail validation never reach it.
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("Invalid message format")
		return
	}

	switch msg.Type {
	case MsgStartGame:
		c.handleStartGame()
	case MsgSubmitScenario:
		c.handleSubmitScenario(msg.Payload)
	case MsgSubmitAnswer:
		c.handleChoice(msg.Payload, c.session.SubmitAnswer)
	case MsgSelectGuess:
		c.handleChoice(msg.Payload, c.session.SelectGuess)
	case MsgLeave:
		c.handleLeave()
	case MsgPing:
		// Keepalive only; pong frames are handled at the protocol level
	default:
		c.sendError("Unknown message type")
	}
}

func (c *Client) handleStartGame() {
	if err := c.session.StartGame(c.playerID); err != nil {
		c.sendError(err.Error())
	}
}

func (c *Client) handleSubmitScenario(payload json.RawMessage) {
	var p SubmitScenarioPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError("Invalid payload")
		return
	}

	if err := c.session.SubmitScenario(c.playerID, p.Text); err != nil {
		c.sendError(err.Error())
	}
}

func (c *Client) handleChoice(payload json.RawMessage, submit func(string, game.Choice) error) {
	var p ChoicePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError("Invalid payload")
		return
	}

	choice := game.Choice(p.Choice)
	if !choice.Valid() {
		c.sendError("Choice must be A or B")
		return
	}

	if err := submit(c.playerID, choice); err != nil {
		c.sendError(err.Error())
	}
}

func (c *Client) handleLeave() {
	c.session.Leave(c.playerID)
	c.Send(game.Outbound{
		Type:    game.OutDisconnected,
		Payload: &game.DisconnectedPayload{Reason: "You left the game."},
	})
	c.Close()
}

// sendConnected confirms the join handshake.
func (c *Client) sendConnected() {
	c.Send(game.Outbound{
		Type: game.OutConnected,
		Payload: &game.ConnectedPayload{
			PlayerID: c.playerID,
			RoomCode: c.session.Code(),
		},
	})
}

// sendError reports a rejected message to the client.
func (c *Client) sendError(message string) {
	c.Send(game.NewError(message))
}
