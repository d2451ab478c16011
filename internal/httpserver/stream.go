// internal/httpserver/stream.go
//
// GET /stream: frames pushed to a presenter over WebSocket.
// Responsibilities:
//   - Upgrade, subscribe to the frame loop, and write frames as JSON text
//     messages ({"type":"frame","payload":...}).
//   - Accept presenter input on the same socket ({"type":"guess","letter":"A"},
//     "new", "hint", "sound", "volume" with delta, "label") and reply with a
//     typed message or {"type":"error","error":"..."}.
//
// Notes:
//   - One writer goroutine owns the connection's write side.
//   - Replies share a bounded send buffer with frames; when it is full the
//     message is dropped (the next frame carries the state anyway).

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/engine"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024

	// Size of the reply buffer
	sendBufferSize = 16

	// Deadline for one command issued from the socket
	commandTimeout = 5 * time.Second
)

// Message types.
const (
	msgFrame  = "frame"
	msgError  = "error"
	msgGuess  = "guess"
	msgNew    = "new"
	msgHint   = "hint"
	msgSound  = "sound"
	msgVolume = "volume"
	msgLabel  = "label"
)

// clientMessage is a presenter command.
type clientMessage struct {
	Type   string  `json:"type"`
	Letter string  `json:"letter,omitempty"`
	Delta  float64 `json:"delta,omitempty"`
}

// serverMessage is what the stream writes.
type serverMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

// streamClient is one connected presenter.
type streamClient struct {
	conn      *websocket.Conn
	game      Game
	presenter string
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &streamClient{
		conn:      conn,
		game:      s.game,
		presenter: PresenterID(r.Context()),
		send:      make(chan []byte, sendBufferSize),
		done:      make(chan struct{}),
	}
	log.Info().Str("presenter", c.presenter).Msg("stream connected")
	c.run()
	log.Info().Str("presenter", c.presenter).Msg("stream closed")
}

// run blocks until the connection ends.
func (c *streamClient) run() {
	frames, unsubscribe := c.game.Subscribe()
	defer unsubscribe()

	go c.writePump(frames)
	c.readPump()
}

func (c *streamClient) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// readPump reads presenter commands until the peer goes away.
func (c *streamClient) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("presenter", c.presenter).Msg("websocket read error")
			}
			return
		}
		c.handleMessage(data)
	}
}

// writePump owns all writes: frames, replies and pings.
func (c *streamClient) writePump(frames <-chan engine.Frame) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case f, ok := <-frames:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// loop stopped
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "game stopped"))
				return
			}
			if err := c.conn.WriteJSON(serverMessage{Type: msgFrame, Payload: f}); err != nil {
				return
			}
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// reply queues msg for the writer, dropping it when the buffer is full.
func (c *streamClient) reply(msg serverMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("type", msg.Type).Msg("marshal stream message")
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	default:
		log.Warn().Str("presenter", c.presenter).Str("type", msg.Type).Msg("send buffer full, message dropped")
	}
}

func (c *streamClient) fail(code string) {
	c.reply(serverMessage{Type: msgError, Error: code})
}

// handleMessage applies one presenter command.
func (c *streamClient) handleMessage(data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.fail("bad_json")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var (
		payload any
		err     error
	)
	switch msg.Type {
	case msgGuess:
		r, ok := singleRune(msg.Letter)
		if !ok {
			c.fail("invalid_letter")
			return
		}
		payload, err = c.game.Guess(ctx, r)
	case msgNew:
		payload, err = c.game.NewGame(ctx)
	case msgHint:
		payload, err = c.game.Hint(ctx)
	case msgSound:
		payload, err = c.game.ToggleSound(ctx)
	case msgVolume:
		payload, err = c.game.AdjustVolume(ctx, msg.Delta)
	case msgLabel:
		var on bool
		on, err = c.game.ToggleLabel(ctx)
		payload = map[string]bool{"showLabel": on}
	default:
		c.fail("unknown_type")
		return
	}
	if err != nil {
		c.fail(errorCode(err))
		return
	}
	c.reply(serverMessage{Type: msg.Type, Payload: payload})
}
