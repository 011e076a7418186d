package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"paddle-arena/internal/match"
)

const (
	// MaxWSConnectionsTotal caps total WebSocket connections.
	MaxWSConnectionsTotal = 100

	// MaxWSConnectionsPerIP caps WebSocket connections per IP.
	MaxWSConnectionsPerIP = 4

	// wsBroadcastInterval is the snapshot push cadence. Clients needing
	// full tick resolution poll /api/state instead.
	wsBroadcastInterval = 33 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if IsAllowedOrigin(origin) {
			return true
		}
		log.Printf("websocket connection rejected from origin: %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// WebSocketHub manages all WebSocket connections. Clients receive
// snapshot broadcasts and may send input payloads upstream.
type WebSocketHub struct {
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	mu         sync.RWMutex

	engine    EngineInterface
	wsLimiter *WebSocketRateLimiter
}

// NewWebSocketHub creates a hub wired to the engine's input mailbox.
func NewWebSocketHub(engine EngineInterface) *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		engine:     engine,
		wsLimiter:  NewWebSocketRateLimiter(MaxWSConnectionsPerIP),
	}
}

// Run services registration and broadcast; call in its own goroutine.
func (h *WebSocketHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("client connected from %s (%d total)", client.ip, count)
			UpdateWSConnections(count)

		case conn := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[conn]; ok {
				h.wsLimiter.Release(client.ip)
				delete(h.clients, conn)
				conn.Close()
			}
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("client disconnected (%d remaining)", count)
			UpdateWSConnections(count)

		case message := <-h.broadcast:
			h.mu.Lock()
			for conn, client := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.wsLimiter.Release(client.ip)
					delete(h.clients, conn)
					conn.Close()
				}
			}
			h.mu.Unlock()
			IncrementWSMessages()
		}
	}
}

// Broadcast queues a message for all connected clients; dropped when the
// channel is full (backpressure over blocking the caller).
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	msg := map[string]interface{}{
		"event": event,
		"data":  data,
	}

	jsonBytes, err := json.Marshal(msg)
	if err != nil {
		return
	}

	select {
	case h.broadcast <- jsonBytes:
	default:
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartBroadcastLoop pushes the latest snapshot to all clients at a fixed
// cadence. Skips the work entirely while nobody is connected.
func (h *WebSocketHub) StartBroadcastLoop() {
	ticker := time.NewTicker(wsBroadcastInterval)

	go func() {
		var lastSeq uint64
		for range ticker.C {
			if h.ClientCount() == 0 {
				continue
			}

			snap := h.engine.Snapshot()
			if snap.Sequence == lastSeq {
				continue // nothing new this interval
			}
			lastSeq = snap.Sequence

			h.Broadcast("match:state", snapshotJSON(snap))
		}
	}()
}

// HandleWebSocket upgrades the connection and services inbound input
// messages until the client goes away.
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	h.mu.RLock()
	totalConnections := len(h.clients)
	h.mu.RUnlock()

	if totalConnections >= MaxWSConnectionsTotal {
		log.Printf("websocket connection rejected: total limit reached (%d)", totalConnections)
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	if !h.wsLimiter.Allow(ip) {
		log.Printf("websocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		h.wsLimiter.Release(ip)
		return
	}

	h.register <- &wsClient{conn: conn, ip: ip}

	go func() {
		defer func() {
			h.unregister <- conn
		}()

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				break
			}

			var in match.Input
			if err := json.Unmarshal(message, &in); err != nil {
				continue
			}
			h.engine.SetInput(in)
		}
	}()
}
