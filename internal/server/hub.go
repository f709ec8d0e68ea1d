package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second

	maxCommandBytes = 4 << 10
)

// Hub tracks connected render clients and fans frames out to them. A
// client that cannot keep up is disconnected rather than slowing the rest.
type Hub struct {
	logger *zap.Logger

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	left       chan<- *Client

	mu      sync.Mutex
	clients map[*Client]struct{}

	sendBuf int
}

// HubConfig sizes the hub queues; zero values pick defaults
type HubConfig struct {
	SendBuf      int
	BroadcastBuf int
}

// NewHub constructs a hub. Call Run to start it. Clients removed from the
// hub are reported on left when it is not nil.
func NewHub(logger *zap.Logger, cfg HubConfig, left chan<- *Client) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	sendBuf := cfg.SendBuf
	if sendBuf <= 0 {
		sendBuf = 32
	}
	bcastBuf := cfg.BroadcastBuf
	if bcastBuf <= 0 {
		bcastBuf = 128
	}
	return &Hub{
		logger:     logger.Named("hub"),
		broadcast:  make(chan []byte, bcastBuf),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		left:       left,
		clients:    make(map[*Client]struct{}),
		sendBuf:    sendBuf,
	}
}

// Run processes hub events until ctx is canceled, then disconnects everyone
func (h *Hub) Run(ctx context.Context) {
	h.logger.Debug("hub starting")
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.logger.Debug("hub stopped")
			return

		case c := <-h.register:
			if c.closed.Load() {
				continue
			}
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client connected", zap.String("client", c.id), zap.String("remote_addr", c.remoteAddr), zap.Int("clients", n))

		case c := <-h.unregister:
			h.remove(c, "unregister")

		case msg := <-h.broadcast:
			var slow []*Client
			h.mu.Lock()
			for c := range h.clients {
				if !c.Send(msg) {
					slow = append(slow, c)
				}
			}
			h.mu.Unlock()
			for _, c := range slow {
				h.remove(c, "slow_client")
			}
		}
	}
}

// Len returns the number of connected clients
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues a serialized frame for every client. It never blocks;
// a full queue drops the frame.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("broadcast queue full, dropping frame", zap.Int("bytes", len(msg)))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()
	for c := range clients {
		c.shut()
	}
}

func (h *Hub) remove(c *Client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	c.shut()
	if !ok {
		return
	}
	h.logger.Info("client disconnected", zap.String("client", c.id), zap.String("reason", reason), zap.Int("clients", n))
	if h.left != nil {
		select {
		case h.left <- c:
		default:
			h.logger.Warn("departure queue full", zap.String("client", c.id))
		}
	}
}

// Client is one connected render surface
type Client struct {
	id         string
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
	logger     *zap.Logger

	closeOnce sync.Once
	closed    atomic.Bool
}

// NewClient creates a client with a buffered send queue
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	sendBuf := 32
	logger := zap.NewNop()
	if hub != nil {
		sendBuf = hub.sendBuf
		logger = hub.logger
	}
	id := uuid.NewString()
	return &Client{
		id:         id,
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBuf),
		remoteAddr: remoteAddr,
		logger:     logger.With(zap.String("client", id)),
	}
}

// ID returns the client's connection id
func (c *Client) ID() string { return c.id }

// Send queues msg for this client only. It reports false when the queue is full.
func (c *Client) Send(msg []byte) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	if c.closed.Load() {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) shut() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		if c.conn != nil {
			_ = c.conn.Close()
		}
		close(c.send)
	})
}

func closeStatus(err error) (int, string, bool) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, ce.Text, true
	}
	return 0, "", false
}

func (c *Client) logExit(pump string, err error) {
	if errors.Is(err, websocket.ErrCloseSent) {
		return
	}
	if code, text, ok := closeStatus(err); ok {
		c.logger.Debug(pump+" exiting", zap.Int("code", code), zap.String("reason", text))
		return
	}
	c.logger.Debug(pump+" exiting", zap.Error(err))
}

// writePump drains the send queue onto the socket and keeps it alive with
// pings. It exits when the queue is closed or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logExit("writePump", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logExit("writePump", err)
				return
			}
		}
	}
}

// readPump decodes inbound commands and forwards them to the loop. It
// unregisters the client when the socket fails.
func (c *Client) readPump(ctx context.Context, commands chan<- Command) {
	c.conn.SetReadLimit(maxCommandBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	defer func() {
		if c.hub != nil {
			select {
			case c.hub.unregister <- c:
			case <-ctx.Done():
			}
		}
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.logExit("readPump", err)
			return
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.logger.Debug("bad command", zap.Error(err))
			c.Send(errorFrame("bad_command", err.Error()))
			continue
		}
		cmd.client = c
		select {
		case commands <- cmd:
		case <-ctx.Done():
			return
		}
	}
}
