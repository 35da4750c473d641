package sse

import (
	"context"
	"sync"

	"stockd/internal/model"
)

// Client receives stock events. Item narrows the stream to a single item;
// an empty Item subscribes to everything.
type Client struct {
	Item string
	Ch   chan model.StockEvent
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan model.StockEvent
	clients    map[*Client]struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan model.StockEvent, 64),
		clients:    make(map[*Client]struct{}),
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) Broadcast(event model.StockEvent) {
	h.broadcast <- event
}

// ClientCount reports how many clients are currently subscribed.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			delete(h.clients, client)
			h.mu.Unlock()
		case event := <-h.broadcast:
			h.fanOut(event)
		}
	}
}

func (h *Hub) fanOut(event model.StockEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.Item != "" && client.Item != event.Item {
			continue
		}
		select {
		case client.Ch <- event:
		default:
			// Drop if the client is too slow.
		}
	}
}
