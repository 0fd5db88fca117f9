package gateway

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// close signals the write pump to exit. Idempotent.
func (c *Connection) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// sendJSON queues a message for this single connection, dropping it if the
// buffer is full rather than blocking the caller.
func (c *Connection) sendJSON(payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("connection_id", c.ID.String()).Msg("failed to marshal outbound message")
		return
	}
	select {
	case c.send <- data:
	default:
		log.Warn().Str("connection_id", c.ID.String()).Msg("send buffer full, dropping message")
	}
}

// writePump serializes all writes to the websocket and keeps the connection
// alive with pings.
func (c *Connection) writePump() {
	cfg := c.registry.config
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().Err(err).Str("connection_id", c.ID.String()).Msg("write failed")
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("connection_id", c.ID.String()).Msg("ping failed")
				return
			}
		}
	}
}
