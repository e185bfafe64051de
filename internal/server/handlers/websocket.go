// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"

	"brandpulse/internal/logger"
)

// ProgressClient relays run progress events from NATS to one
// WebSocket connection
type ProgressClient struct {
	conn     *websocket.Conn
	send     chan []byte
	runID    string
	natsConn *nats.Conn
	sub      *nats.Subscription
}

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4096,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, this should be more restrictive
		return true
	},
}

// RunProgressHandler streams progress events for one analysis run
// over a WebSocket connection
func RunProgressHandler(natsConn *nats.Conn, eventsTopic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := chi.URLParam(r, "id")
		if runID == "" {
			http.Error(w, "Missing run ID", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Log.WithError(err).Warn("failed to upgrade to WebSocket")
			return
		}

		client := &ProgressClient{
			conn:     conn,
			send:     make(chan []byte, 64),
			runID:    runID,
			natsConn: natsConn,
		}

		if err := client.subscribe(eventsTopic); err != nil {
			logger.Log.WithError(err).Warn("failed to subscribe to progress events")
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()

		welcome, _ := json.Marshal(map[string]interface{}{
			"type":   "subscribed",
			"run_id": runID,
			"time":   time.Now().UTC(),
		})
		client.send <- welcome

		logger.Log.WithField("run_id", runID).Debug("progress WebSocket connected")
	}
}

// subscribe attaches the client to its run's progress subject
func (c *ProgressClient) subscribe(eventsTopic string) error {
	subject := fmt.Sprintf("%s.progress.%s", eventsTopic, c.runID)

	sub, err := c.natsConn.Subscribe(subject, func(msg *nats.Msg) {
		select {
		case c.send <- msg.Data:
		default:
			// Slow consumer; drop the event rather than block NATS.
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", subject, err)
	}

	c.sub = sub
	return nil
}

// readPump drains the connection so pings and close frames are
// processed; clients do not send application messages
func (c *ProgressClient) readPump() {
	config := DefaultWebSocketConfig()

	defer c.closeConnection()

	c.conn.SetReadLimit(config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.WithError(err).Debug("WebSocket read error")
			}
			break
		}
	}
}

// writePump forwards progress events to the peer
func (c *ProgressClient) writePump() {
	config := DefaultWebSocketConfig()
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// closeConnection unsubscribes and closes the socket; safe to call
// from both pumps
func (c *ProgressClient) closeConnection() {
	if c.sub != nil {
		c.sub.Unsubscribe()
		c.sub = nil
	}
	c.conn.Close()
}
