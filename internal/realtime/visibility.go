// Package realtime carries the quiz page's tab-visibility channel over a
// WebSocket. The connection's lifetime is the observer's attach window.
package realtime

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat, in seconds.
	PingInterval = 30
	PongWait     = 60

	writeWait    = 10 * time.Second
	maxMessage   = 4096
	sendCapacity = 16
)

// Events on the wire.
const (
	EventVisibility = "visibility"
	EventWarning    = "warning"
)

// Origin is checked by the default policy: same host only.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WSMessage is the WebSocket message envelope.
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// VisibilityData is the payload of a visibility event.
type VisibilityData struct {
	Hidden bool `json:"hidden"`
}

// WarningData is the payload pushed back after a tab switch.
type WarningData struct {
	Message string `json:"message"`
}

// Observer receives visibility changes of one quiz page.
type Observer interface {
	Attach()
	Detach()
	// Hidden returns the warning to show, or "" when none applies.
	Hidden() string
	Visible()
}

// Conn is one visibility connection.
type Conn struct {
	obs    Observer
	conn   *websocket.Conn
	send   chan WSMessage
	logger *zap.Logger
}

// Serve upgrades the request and runs the connection until the page closes
// it. The observer is attached for exactly that long.
func Serve(c *gin.Context, obs Observer, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	conn := &Conn{
		obs:    obs,
		conn:   ws,
		send:   make(chan WSMessage, sendCapacity),
		logger: logger,
	}
	obs.Attach()
	go conn.writePump()
	conn.readPump()
}

// Handle applies one inbound message and returns the reply, if any.
func Handle(obs Observer, msg WSMessage) (WSMessage, bool) {
	if msg.Event != EventVisibility {
		return WSMessage{}, false
	}
	var data VisibilityData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return WSMessage{}, false
	}
	if !data.Hidden {
		obs.Visible()
		return WSMessage{}, false
	}
	warning := obs.Hidden()
	if warning == "" {
		return WSMessage{}, false
	}
	raw, _ := json.Marshal(WarningData{Message: warning})
	return WSMessage{Event: EventWarning, Data: raw}, true
}

func (c *Conn) readPump() {
	defer func() {
		c.obs.Detach()
		close(c.send)
	}()

	c.conn.SetReadLimit(maxMessage)
	_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
		return nil
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("visibility connection closed", zap.Error(err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))

		if reply, ok := Handle(c.obs, msg); ok {
			select {
			case c.send <- reply:
			default:
			}
		}
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(PingInterval * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
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
