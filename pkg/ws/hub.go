// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ws fans JSON events out to websocket subscribers grouped by topic.

One goroutine ([Hub.Run]) owns the subscriber table. Every client has its own
write pump, so a slow reader never blocks a publisher: when its buffer is full
the client is dropped.

Usage:

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	client := ws.NewClient(hub, conn, sessionID)
	client.Register()
	go client.WritePump()
	client.ReadPump()

	hub.Publish(sessionID, "notice", payload)
*/
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// sendBuffer is the per-client queue length.
	sendBuffer = 64

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound frames; clients only send control frames.
	maxMessageSize = 512
)

// Message is the envelope of every frame.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type envelope struct {
	topic   string
	payload []byte
}

type countRequest struct {
	topic string
	reply chan int
}

// # Hub

// Hub routes published messages to the clients of one topic.
type Hub struct {
	logger *zap.Logger
	topics map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	publish    chan envelope
	closeTopic chan string
	count      chan countRequest
	done       chan struct{}
}

// NewHub creates a hub. It does nothing until [Hub.Run] is started.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		topics:     make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan envelope, 256),
		closeTopic: make(chan string),
		count:      make(chan countRequest),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for topic := range h.topics {
				h.dropTopic(topic)
			}
			return

		case client := <-h.register:
			clients, ok := h.topics[client.topic]
			if !ok {
				clients = make(map[*Client]struct{})
				h.topics[client.topic] = clients
			}
			clients[client] = struct{}{}
			h.logger.Debug("ws_client_connected",
				zap.String("topic", client.topic),
				zap.Int("topic_clients", len(clients)),
			)

		case client := <-h.unregister:
			h.drop(client)

		case message := <-h.publish:
			for client := range h.topics[message.topic] {
				select {
				case client.send <- message.payload:
				default:
					h.logger.Warn("ws_client_slow", zap.String("topic", message.topic))
					h.drop(client)
				}
			}

		case topic := <-h.closeTopic:
			h.dropTopic(topic)

		case request := <-h.count:
			request.reply <- len(h.topics[request.topic])
		}
	}
}

// Publish queues one message for every client of topic. It never blocks on clients.
func (h *Hub) Publish(topic, msgType string, data any) {
	payload, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		h.logger.Error("ws_marshal_failed", zap.String("type", msgType), zap.Error(err))
		return
	}

	select {
	case h.publish <- envelope{topic: topic, payload: payload}:
	case <-h.done:
	}
}

// CloseTopic disconnects every client of topic.
func (h *Hub) CloseTopic(topic string) {
	select {
	case h.closeTopic <- topic:
	case <-h.done:
	}
}

// Count returns the number of clients subscribed to topic.
func (h *Hub) Count(topic string) int {
	request := countRequest{topic: topic, reply: make(chan int, 1)}
	select {
	case h.count <- request:
		return <-request.reply
	case <-h.done:
		return 0
	}
}

// drop must only be called from Run.
func (h *Hub) drop(client *Client) {
	clients, ok := h.topics[client.topic]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.topics, client.topic)
	}
	h.logger.Debug("ws_client_disconnected", zap.String("topic", client.topic))
}

func (h *Hub) dropTopic(topic string) {
	for client := range h.topics[topic] {
		close(client.send)
	}
	delete(h.topics, topic)
}

// # Client

// Client is one websocket connection subscribed to a topic.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	topic string
	send  chan []byte
}

// NewClient wraps an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn, topic string) *Client {
	return &Client{
		hub:   hub,
		conn:  conn,
		topic: topic,
		send:  make(chan []byte, sendBuffer),
	}
}

// Register subscribes the client. It returns false when the hub has stopped.
func (c *Client) Register() bool {
	select {
	case c.hub.register <- c:
		return true
	case <-c.hub.done:
		return false
	}
}

// Unregister removes the client from the hub.
func (c *Client) Unregister() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
}

// ReadPump discards inbound frames and keeps the connection alive until it fails.
func (c *Client) ReadPump() {
	defer func() {
		c.Unregister()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// WritePump sends queued messages and pings until the hub closes the queue.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// # Serving

// Serve upgrades request and subscribes the connection to topic. It blocks
// until the connection ends.
func (h *Hub) Serve(upgrader *websocket.Upgrader, writer http.ResponseWriter, request *http.Request, topic string) error {
	conn, err := upgrader.Upgrade(writer, request, nil)
	if err != nil {
		return err
	}

	client := NewClient(h, conn, topic)
	if !client.Register() {
		return conn.Close()
	}

	go client.WritePump()
	client.ReadPump()
	return nil
}
