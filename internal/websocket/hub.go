package websocket

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"penguindash/internal/infrastructure"
)

// envelope is an outbound frame addressed to one client, one session, or
// to everyone when both are empty
type envelope struct {
	target  *Client
	session string
	payload []byte
	msgType string
}

// Hub maintains the set of active clients, indexed by session, and routes
// messages to them
type Hub struct {
	// Registered clients
	clients map[*Client]struct{}

	// Clients per session id
	sessions map[string]map[*Client]struct{}

	outbound   chan envelope
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger   *slog.Logger
	metrics  *infrastructure.DashboardMetrics
	otel     *OTelMetrics
	counters *Metrics

	quit    chan struct{}
	done    chan struct{}
	running bool
}

// NewHub creates a new Hub. metrics and otel may be nil.
func NewHub(logger *slog.Logger, metrics *infrastructure.DashboardMetrics, otel *OTelMetrics) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		sessions:   make(map[string]map[*Client]struct{}),
		outbound:   make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     infrastructure.WithComponent(logger, "websocket.hub"),
		metrics:    metrics,
		otel:       otel,
		counters:   NewMetrics(),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start starts the hub's main loop
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
}

// Stop closes every client and ends the main loop
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	<-h.done
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// SendToSession queues a message for every connection of one session
func (h *Hub) SendToSession(sessionID, messageType string, data interface{}) {
	h.enqueue(sessionID, messageType, data)
}

// Broadcast queues a message for every connected client
func (h *Hub) Broadcast(messageType string, data interface{}) {
	h.enqueue("", messageType, data)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SessionClientCount returns the number of connections of one session
func (h *Hub) SessionClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Stats returns a snapshot of the hub counters
func (h *Hub) Stats() Snapshot {
	return h.counters.Snapshot()
}

// sendToClient queues a message for a single connection
func (h *Hub) sendToClient(c *Client, messageType string, data interface{}) {
	h.push(envelope{target: c, session: c.sessionID, msgType: messageType}, data, c.traceID)
}

func (h *Hub) enqueue(sessionID, messageType string, data interface{}) {
	h.push(envelope{session: sessionID, msgType: messageType}, data, "")
}

func (h *Hub) push(env envelope, data interface{}, traceID string) {
	payload, err := encode(env.msgType, data, traceID)
	if err != nil {
		h.logger.Error("failed to encode websocket message",
			slog.String("type", env.msgType),
			slog.String("error", err.Error()))
		h.counters.RecordError("encode")
		return
	}

	env.payload = payload
	select {
	case h.outbound <- env:
	case <-h.quit:
	default:
		h.logger.Warn("hub queue full, dropping message",
			slog.String("type", env.msgType),
			slog.String("session_id", env.session))
		h.counters.RecordDroppedMessage()
		h.otel.RecordDropped(context.Background(), env.msgType, "hub_queue_full")
	}
}

func (h *Hub) run() {
	defer close(h.done)

	for {
		select {
		case <-h.quit:
			h.shutdown()
			return

		case client := <-h.register:
			h.add(client)

		case client := <-h.unregister:
			h.remove(client, "normal")

		case env := <-h.outbound:
			h.deliver(env)
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	peers, ok := h.sessions[client.sessionID]
	if !ok {
		peers = make(map[*Client]struct{})
		h.sessions[client.sessionID] = peers
	}
	peers[client] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	ctx := client.context()
	h.counters.RecordConnection()
	h.metrics.RecordConnectionChange(ctx, 1)

	h.logger.InfoContext(ctx, "client registered",
		slog.String("client_id", client.id),
		slog.String("session_id", client.sessionID),
		slog.String("remote_addr", client.remoteAddr),
		slog.Int("total_clients", count))

	payload, err := encode(TypeConnection, map[string]interface{}{
		"status":     "connected",
		"client_id":  client.id,
		"session_id": client.sessionID,
	}, client.traceID)
	if err == nil {
		client.queue(payload)
	}
}

func (h *Hub) remove(client *Client, reason string) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	if peers := h.sessions[client.sessionID]; peers != nil {
		delete(peers, client)
		if len(peers) == 0 {
			delete(h.sessions, client.sessionID)
		}
	}
	close(client.send)
	count := len(h.clients)
	h.mu.Unlock()

	ctx := client.context()
	duration := time.Since(client.connectedAt)
	h.counters.RecordDisconnection(duration)
	h.metrics.RecordConnectionChange(ctx, -1)
	h.otel.RecordDisconnection(ctx, duration, reason)

	h.logger.InfoContext(ctx, "client unregistered",
		slog.String("client_id", client.id),
		slog.String("session_id", client.sessionID),
		slog.String("reason", reason),
		slog.Duration("connection_duration", duration),
		slog.Int("total_clients", count))
}

func (h *Hub) deliver(env envelope) {
	h.mu.RLock()
	var targets []*Client
	if env.target != nil {
		if _, ok := h.clients[env.target]; ok {
			targets = []*Client{env.target}
		}
	} else if env.session == "" {
		targets = make([]*Client, 0, len(h.clients))
		for c := range h.clients {
			targets = append(targets, c)
		}
	} else {
		for c := range h.sessions[env.session] {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if c.queue(env.payload) {
			h.counters.RecordMessage("sent", int64(len(env.payload)), true)
			h.metrics.RecordMessage(c.context(), "out", env.msgType)
			h.otel.RecordBytes(c.context(), "out", int64(len(env.payload)))
			continue
		}

		// a client that cannot keep up is dropped
		h.logger.WarnContext(c.context(), "client send buffer full, disconnecting",
			slog.String("client_id", c.id))
		h.counters.RecordDroppedMessage()
		h.otel.RecordDropped(c.context(), env.msgType, "client_buffer_full")
		h.remove(c, "slow_consumer")
	}
}

func (h *Hub) shutdown() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.remove(c, "shutdown")
	}
	h.logger.Info("hub stopped", slog.Int("closed_clients", len(clients)))
}
