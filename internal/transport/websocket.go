// SPDX-License-Identifier: MIT
package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("transport closed")

// DefaultWriteTimeout bounds a single client write. A client that cannot take
// a frame within it is disconnected.
const DefaultWriteTimeout = time.Second

// WebSocketTransport broadcasts every sent value as JSON to all connected
// WebSocket clients. Messages are queued and dropped when the queue is full.
type WebSocketTransport struct {
	path      string
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
	broadcast chan any
	done      chan struct{}
	closeOnce sync.Once
	listener  net.Listener
	server    *http.Server
	wg        sync.WaitGroup

	writeTimeout time.Duration
}

// NewWebSocketTransport listens on addr and upgrades requests to path.
// Use "127.0.0.1:0" to pick a free port; Addr reports the bound address.
func NewWebSocketTransport(addr, path string) (*WebSocketTransport, error) {
	if path == "" {
		path = "/ws"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	wst := &WebSocketTransport{
		path: path,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Viewers are served from anywhere.
			},
		},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan any, 256),
		done:      make(chan struct{}),
		listener:  ln,

		writeTimeout: DefaultWriteTimeout,
	}

	wst.start()
	return wst, nil
}

// Addr returns the address the server is bound to.
func (wst *WebSocketTransport) Addr() string {
	return wst.listener.Addr().String()
}

// URL returns the ws:// URL clients connect to.
func (wst *WebSocketTransport) URL() string {
	return "ws://" + wst.Addr() + wst.path
}

// ClientCount returns the number of connected clients.
func (wst *WebSocketTransport) ClientCount() int {
	wst.clientsMu.Lock()
	defer wst.clientsMu.Unlock()
	return len(wst.clients)
}

func (wst *WebSocketTransport) start() {
	mux := http.NewServeMux()
	mux.HandleFunc(wst.path, wst.handleWebSocket)
	wst.server = &http.Server{Handler: mux}

	wst.wg.Add(2)
	go func() {
		defer wst.wg.Done()
		logger.Infof("Starting WebSocket server on %s", wst.URL())
		if err := wst.server.Serve(wst.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Server error: %v", err)
		}
	}()
	go func() {
		defer wst.wg.Done()
		wst.handleBroadcasts()
	}()
}

// handleWebSocket upgrades HTTP connections to WebSocket.
func (wst *WebSocketTransport) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := wst.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("Upgrade error: %v", err)
		return
	}

	wst.clientsMu.Lock()
	wst.clients[conn] = true
	total := len(wst.clients)
	wst.clientsMu.Unlock()
	logger.Infof("Client connected, total: %d", total)

	// Clients never send; a read error means the peer went away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				wst.drop(conn)
				return
			}
		}
	}()
}

func (wst *WebSocketTransport) snapshot() []*websocket.Conn {
	wst.clientsMu.Lock()
	defer wst.clientsMu.Unlock()
	conns := make([]*websocket.Conn, 0, len(wst.clients))
	for c := range wst.clients {
		conns = append(conns, c)
	}
	return conns
}

func (wst *WebSocketTransport) drop(conn *websocket.Conn) {
	wst.clientsMu.Lock()
	_, ok := wst.clients[conn]
	delete(wst.clients, conn)
	total := len(wst.clients)
	wst.clientsMu.Unlock()

	if ok {
		_ = conn.Close()
		logger.Infof("Client disconnected, total: %d", total)
	}
}

// handleBroadcasts encodes each message once and writes it to every client.
// Writes happen outside clientsMu so a slow client never blocks connects.
func (wst *WebSocketTransport) handleBroadcasts() {
	for {
		select {
		case <-wst.done:
			return
		case data := <-wst.broadcast:
			payload, err := json.Marshal(data)
			if err != nil {
				logger.Errorf("Failed to encode %T: %v", data, err)
				continue
			}

			for _, client := range wst.snapshot() {
				_ = client.SetWriteDeadline(time.Now().Add(wst.writeTimeout))
				if err := client.WriteMessage(websocket.TextMessage, payload); err != nil {
					logger.Warnf("Error sending to client: %v", err)
					wst.drop(client)
				}
			}
		}
	}
}

// Send queues data for broadcast. A full queue drops the message.
func (wst *WebSocketTransport) Send(data any) error {
	select {
	case <-wst.done:
		return ErrClosed
	default:
	}

	select {
	case wst.broadcast <- data:
	default:
		logger.Debugf("Broadcast queue full, dropping %T", data)
	}
	return nil
}

// Close disconnects all clients and shuts down the server.
func (wst *WebSocketTransport) Close() error {
	var err error
	wst.closeOnce.Do(func() {
		logger.Infof("Closing WebSocket server")
		close(wst.done)

		wst.clientsMu.Lock()
		for client := range wst.clients {
			_ = client.Close()
		}
		wst.clients = make(map[*websocket.Conn]bool)
		wst.clientsMu.Unlock()

		err = wst.server.Close()
		wst.wg.Wait()
	})
	return err
}

// Ensure WebSocketTransport satisfies the interface.
var _ Transport = (*WebSocketTransport)(nil)
