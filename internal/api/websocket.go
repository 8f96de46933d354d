package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/event"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The forum frontend is served from another origin.
		return true
	},
}

// WSMessage is the envelope for every frame pushed to the client.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// wsClient is one member's event stream connection. The send channel
// is never closed; done signals shutdown instead, because bus handlers
// keep firing after the connection goes away.
type wsClient struct {
	conn        *websocket.Conn
	send        chan []byte
	done        chan struct{}
	playerID    string
	once        sync.Once
	unsubscribe []func()
}

// HandleWebSocket streams the authenticated member's reveal and
// settlement events. The connection is push-only apart from pings.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	playerID := playerFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &wsClient{
		conn:     conn,
		send:     make(chan []byte, 256),
		done:     make(chan struct{}),
		playerID: playerID,
	}

	// The bus fans out every member's events; each client filters to
	// its own. The subscriptions are released when the connection
	// closes.
	client.unsubscribe = append(client.unsubscribe,
		h.bus.Subscribe(event.TopicReveal, func(payload any) {
			if ev, ok := payload.(event.Reveal); ok && ev.PlayerID == client.playerID {
				client.push("reveal", ev)
			}
		}),
		h.bus.Subscribe(event.TopicSettled, func(payload any) {
			if ev, ok := payload.(event.Settled); ok && ev.PlayerID == client.playerID {
				client.push("settled", ev)
			}
		}),
	)

	client.push("connected", map[string]any{
		"player_id": playerID,
	})

	go client.writePump()
	go client.readPump(h)
}

// push marshals and queues one frame, dropping it if the client has
// gone away or is not keeping up.
func (c *wsClient) push(msgType string, payload any) {
	payloadBytes, _ := json.Marshal(payload)
	frame, _ := json.Marshal(WSMessage{Type: msgType, Payload: payloadBytes})

	select {
	case <-c.done:
	case c.send <- frame:
	default:
	}
}

func (c *wsClient) close() {
	c.once.Do(func() {
		close(c.done)
		for _, cancel := range c.unsubscribe {
			cancel()
		}
	})
}

// writePump drains the send channel onto the connection and keeps the
// connection alive with pings.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes pongs and detects the client going away.
func (c *wsClient) readPump(h *Handler) {
	defer func() {
		c.close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Debug().Err(err).Str("player_id", c.playerID).Msg("websocket closed")
			}
			return
		}
	}
}
