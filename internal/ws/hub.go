package ws

import (
	"encoding/json"
	"log"
	"sync"

	"go-catalog-import/internal/events"

	"github.com/gofiber/contrib/websocket"
)

// Hub pushes catalog events (imports, facet updates) to connected admin
// clients.
type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.Println("New WS client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// RelayEvents forwards catalog events from the bus to all clients as JSON
func (h *Hub) RelayEvents(ch <-chan events.Event) {
	for event := range ch {
		payload := map[string]interface{}{
			"type":       "catalog_update",
			"action":     string(event.Type),
			"product_id": event.ProductID,
			"sku":        event.SKU,
			"name":       event.Name,
		}
		message, err := json.Marshal(payload)
		if err != nil {
			continue
		}
		h.Broadcast <- message
	}
}
