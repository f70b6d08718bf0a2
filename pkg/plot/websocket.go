package plot

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raykavin/trendline/pkg/logger"
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type    string `json:"type"`
	Chart   string `json:"chart"`
	Payload any    `json:"payload"`
}

type client struct {
	sync.Mutex
	conn  *websocket.Conn
	chart string
}

func (c *client) write(msg WebSocketMessage) error {
	c.Lock()
	defer c.Unlock()
	return c.writeLocked(msg)
}

func (c *client) writeLocked(msg WebSocketMessage) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(msg)
}

// WebSocketManager pushes control state changes to every page showing a chart,
// so toggles made in one browser tab show up in the others
type WebSocketManager struct {
	sync.RWMutex
	clients       map[*websocket.Conn]*client
	upgrader      websocket.Upgrader
	broadcastChan chan WebSocketMessage
	closeOnce     sync.Once
	done          chan struct{}
	log           logger.Logger
	server        *Server
}

// NewWebSocketManager creates a new WebSocket manager
func NewWebSocketManager(log logger.Logger, server *Server) *WebSocketManager {
	manager := &WebSocketManager{
		clients: make(map[*websocket.Conn]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		broadcastChan: make(chan WebSocketMessage, 100),
		done:          make(chan struct{}),
		log:           log,
		server:        server,
	}

	go manager.handleBroadcasts()

	return manager
}

// handleBroadcasts delivers queued messages to the clients of their chart
func (m *WebSocketManager) handleBroadcasts() {
	for {
		select {
		case <-m.done:
			return
		case msg := <-m.broadcastChan:
			m.RLock()
			targets := make([]*client, 0, len(m.clients))
			for _, c := range m.clients {
				if c.chart == msg.Chart {
					targets = append(targets, c)
				}
			}
			m.RUnlock()

			for _, c := range targets {
				if err := c.write(msg); err != nil {
					m.log.Error("Error sending WebSocket message: ", err)
					c.conn.Close()
				}
			}
		}
	}
}

// HandleWebSocket subscribes a connection to the updates of one chart
func (m *WebSocketManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	p, ok := m.server.requestedChart(w, r)
	if !ok {
		return
	}

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Error("Failed to upgrade connection to WebSocket: ", err)
		return
	}

	c := &client{conn: conn, chart: p.Chart.Name}

	// broadcasts to c wait on its lock until the snapshot taken after registration is written
	c.Lock()
	m.Lock()
	m.clients[conn] = c
	clientCount := len(m.clients)
	m.Unlock()

	err = c.writeLocked(WebSocketMessage{Type: "state", Chart: c.chart, Payload: p.Controls.Snapshot()})
	c.Unlock()
	if err != nil {
		m.log.Error("Error sending initial state: ", err)
	}

	m.log.WithField("chart", c.chart).Debugf("WebSocket client connected, total: %d", clientCount)

	go m.handleClient(c)
}

// handleClient keeps reading until the client goes away
func (m *WebSocketManager) handleClient(c *client) {
	defer func() {
		m.Lock()
		delete(m.clients, c.conn)
		remaining := len(m.clients)
		m.Unlock()

		m.log.Debugf("WebSocket client disconnected, remaining: %d", remaining)
		c.conn.Close()
	}()

	c.conn.SetPingHandler(func(string) error {
		return c.conn.WriteControl(websocket.PongMessage, []byte{}, time.Now().Add(10*time.Second))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.log.Error("WebSocket read error: ", err)
			}
			return
		}
	}
}

// Broadcast queues a message for every client of chart; it is dropped when the queue is full
func (m *WebSocketManager) Broadcast(chart, kind string, payload any) {
	msg := WebSocketMessage{Type: kind, Chart: chart, Payload: payload}

	select {
	case <-m.done:
	case m.broadcastChan <- msg:
	default:
		m.log.WithField("chart", chart).Warn("WebSocket queue full, update dropped")
	}
}

// Clients returns the number of connected clients
func (m *WebSocketManager) Clients() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.clients)
}

// Close stops delivering messages and disconnects every client
func (m *WebSocketManager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)

		m.Lock()
		defer m.Unlock()
		for conn := range m.clients {
			conn.Close()
		}
	})
}
