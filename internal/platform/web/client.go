package web

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snake-arena/internal/multiplayer"
	"github.com/vovakirdan/snake-arena/internal/protocol"
)

// client pumps frames between one websocket and the coordinator.
type client struct {
	id      multiplayer.SessionID
	conn    *websocket.Conn
	codec   protocol.Codec
	session *multiplayer.ChannelSession
	coord   Dispatcher
	cfg     Config
	logger  *log.Logger
}

// readPump decodes inbound frames into coordinator messages until the socket fails.
func (c *client) readPump() {
	defer func() {
		c.coord.Send(multiplayer.SessionDisconnectedMsg{SessionID: c.id})
		c.session.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read failed", "err", err)
			}
			return
		}
		c.handleFrame(data)
	}
}

func (c *client) handleFrame(data []byte) {
	frame, err := c.codec.Decode(data)
	if err != nil {
		c.logger.Debug("dropping malformed frame", "err", err)
		return
	}

	switch frame.Type {
	case protocol.EventPlayerReady:
		c.coord.Send(multiplayer.PlayerReadyMsg{SessionID: c.id})

	case protocol.EventUpdateMouse:
		var m protocol.Mouse
		if err := frame.Decode(&m); err != nil {
			c.logger.Debug("dropping bad updateMouse", "err", err)
			return
		}
		c.coord.Send(multiplayer.UpdateMouseMsg{SessionID: c.id, X: m.X, Y: m.Y})

	default:
		c.logger.Debug("dropping unknown event", "type", frame.Type)
	}
}

// writePump encodes session events onto the socket and keeps it alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		if n := c.session.Dropped(); n > 0 {
			c.logger.Debug("slow client dropped events", "count", n)
		}
	}()

	msgType := websocket.TextMessage
	if c.codec.Binary() {
		msgType = websocket.BinaryMessage
	}

	for {
		select {
		case evt := <-c.session.Events():
			data, err := c.codec.Encode(evt.Name(), evt.Payload())
			if err != nil {
				c.logger.Error("encode failed", "event", evt.Name(), "err", err)
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(msgType, data); err != nil {
				return
			}
			if _, full := evt.(multiplayer.ServerFullEvent); full {
				c.writeClose(websocket.ClosePolicyViolation, "server full")
				return
			}

		case <-c.session.Done():
			c.writeClose(websocket.CloseNormalClosure, "")
			return

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) writeClose(code int, reason string) {
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
}
