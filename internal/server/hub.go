// Package server coordinates connection registration, pump lifecycles, and
// disconnect cleanup for the WebSocket transport via the Hub type.
package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sahankit/chatkaro-app/internal/chat"
)

// Hub owns the set of live WebSocket connections. It serializes
// registration and unregistration through its event loop and routes every
// disconnect, clean or not, into the coordinator's cleanup path.
type Hub struct {
	log         *slog.Logger
	coordinator *chat.Coordinator
	cfg         Config

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewHub(log *slog.Logger, coordinator *chat.Coordinator, cfg Config) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		log:         log,
		coordinator: coordinator,
		cfg:         cfg,
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
}

// Register hands a freshly upgraded connection to the hub's event loop.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
		client.closeConnection()
	}
}

// Run is the hub's main event loop. It must be started in its own goroutine
// before the HTTP server begins accepting upgrades.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownClients()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}

			h.mutex.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mutex.Unlock()
			h.log.Info("client registered", "addr", client.addr, "total", count)

			h.wg.Add(2)
			go func() {
				defer h.wg.Done()
				client.writePump()
			}()
			go func() {
				defer h.wg.Done()
				client.readPump()
			}()

			// Lobby state goes out immediately, before any identity exists.
			client.Send(chat.EventRoomsList, h.coordinator.RoomList())

		case client := <-h.unregister:
			h.mutex.Lock()
			_, ok := h.clients[client]
			if ok {
				delete(h.clients, client)
			}
			count := len(h.clients)
			h.mutex.Unlock()
			if !ok {
				continue
			}

			client.close()
			if id := client.identityID(); id != "" {
				h.coordinator.Disconnect(id, client)
			}
			h.log.Info("client unregistered", "addr", client.addr, "total", count)
		}
	}
}

// Unregister routes a dying connection into cleanup. Safe to call multiple
// times for the same client.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) shutdownClients() {
	h.mutex.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[*Client]bool)
	h.mutex.Unlock()

	for _, client := range clients {
		client.close()
		client.closeConnection()
		if id := client.identityID(); id != "" {
			h.coordinator.Disconnect(id, client)
		}
	}
	h.log.Info("closed client connections", "count", len(clients))
}

// Shutdown stops the event loop, closes every connection, and waits for the
// pump goroutines to finish or the timeout to pass.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.cancel()
	<-h.done

	finished := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		h.log.Info("hub shutdown completed")
		return nil
	case <-time.After(timeout):
		h.log.Warn("hub shutdown timeout reached")
		return context.DeadlineExceeded
	}
}
