package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ConnectionConfig holds websocket tuning knobs.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// ConnectionManager keeps websocket connections grouped by draft and fans
// events out to them.
type ConnectionManager struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]map[*Connection]bool

	upgrader    websocket.Upgrader
	config      ConnectionConfig
	broadcastCh chan broadcast
}

// Connection is one client subscribed to one draft.
type Connection struct {
	ID      string
	UserID  string
	DraftID uuid.UUID

	conn    *websocket.Conn
	send    chan []byte
	manager *ConnectionManager
}

type broadcast struct {
	draftID uuid.UUID
	event   *DraftEvent
	userID  string // non-empty: deliver only to this user's connections
}

func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[uuid.UUID]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan broadcast, 1000),
	}
}

// Start processes broadcasts until the context ends.
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			return
		case b := <-cm.broadcastCh:
			cm.deliver(b)
		}
	}
}

// Subscribe upgrades the request to a websocket subscribed to the draft.
func (cm *ConnectionManager) Subscribe(w http.ResponseWriter, r *http.Request, userID string, draftID uuid.UUID) error {
	ws, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	c := &Connection{
		ID:      uuid.New().String(),
		UserID:  userID,
		DraftID: draftID,
		conn:    ws,
		send:    make(chan []byte, 256),
		manager: cm,
	}
	cm.register(c)

	go c.writePump()
	go c.readPump()

	log.Info().
		Str("connection_id", c.ID).
		Str("user_id", userID).
		Str("draft_id", draftID.String()).
		Msg("websocket connection established")
	return nil
}

// BroadcastToDraft queues an event for every connection on the draft.
func (cm *ConnectionManager) BroadcastToDraft(draftID uuid.UUID, event *DraftEvent) {
	select {
	case cm.broadcastCh <- broadcast{draftID: draftID, event: event}:
	default:
		log.Warn().Str("draft_id", draftID.String()).Msg("broadcast channel full, dropping message")
	}
}

// BroadcastToUser queues an event for one user's connections on the draft.
func (cm *ConnectionManager) BroadcastToUser(draftID uuid.UUID, userID string, event *DraftEvent) {
	select {
	case cm.broadcastCh <- broadcast{draftID: draftID, event: event, userID: userID}:
	default:
		log.Warn().
			Str("draft_id", draftID.String()).
			Str("user_id", userID).
			Msg("broadcast channel full, dropping user message")
	}
}

// ConnectionCount reports active connections for the draft.
func (cm *ConnectionManager) ConnectionCount(draftID uuid.UUID) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections[draftID])
}

func (cm *ConnectionManager) register(c *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.connections[c.DraftID] == nil {
		cm.connections[c.DraftID] = make(map[*Connection]bool)
	}
	cm.connections[c.DraftID][c] = true
}

func (cm *ConnectionManager) unregister(c *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	pool, ok := cm.connections[c.DraftID]
	if !ok {
		return
	}
	if _, ok := pool[c]; !ok {
		return
	}
	delete(pool, c)
	close(c.send)
	if len(pool) == 0 {
		delete(cm.connections, c.DraftID)
	}

	log.Debug().
		Str("connection_id", c.ID).
		Str("draft_id", c.DraftID.String()).
		Msg("connection unregistered")
}

func (cm *ConnectionManager) deliver(b broadcast) {
	cm.mu.RLock()
	pool, ok := cm.connections[b.draftID]
	if !ok {
		cm.mu.RUnlock()
		return
	}
	targets := make([]*Connection, 0, len(pool))
	for c := range pool {
		if b.userID != "" && c.UserID != b.userID {
			continue
		}
		targets = append(targets, c)
	}
	cm.mu.RUnlock()

	data, err := json.Marshal(b.event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	for _, c := range targets {
		select {
		case c.send <- data:
		default:
			// A full send buffer means the client stopped reading.
			log.Warn().
				Str("connection_id", c.ID).
				Str("user_id", c.UserID).
				Msg("connection send buffer full, closing connection")
			cm.unregister(c)
			c.conn.Close()
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.manager.unregister(c)
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().Err(err).Str("connection_id", c.ID).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Connection) readPump() {
	defer func() {
		c.manager.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.manager.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("connection_id", c.ID).Msg("unexpected websocket close")
			}
			return
		}

		// Clients have no commands yet; the socket is a one-way event feed.
		log.Debug().
			Str("connection_id", c.ID).
			RawJSON("message", message).
			Msg("ignoring client message")
		c.conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
	}
}
