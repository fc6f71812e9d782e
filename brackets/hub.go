package brackets

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event types pushed to connected clients.
const (
	EventBracketUpdated     = "BRACKET_UPDATED"
	EventTournamentComplete = "TOURNAMENT_COMPLETED"
	EventLeaderboardUpdated = "LEADERBOARD_UPDATED"
)

// LeaderboardRoom is the room leaderboard watchers join; tournament rooms are
// keyed by tournament id.
const LeaderboardRoom = "leaderboard"

// TournamentRoom names the room for one tournament's live bracket updates.
func TournamentRoom(tournamentID int) string {
	return fmt.Sprintf("tournament:%d", tournamentID)
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Message is the envelope broadcast to every client in a room.
type Message struct {
	Type    string      `json:"type"`
	RoomID  string      `json:"room_id,omitempty"`
	Payload interface{} `json:"payload"`
}

// Client is one websocket subscriber bound to a single room.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	room string
}

// Hub fans broadcast messages out to room subscribers. Run must be started
// in its own goroutine before clients connect.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomMessage
	rooms      map[string]map[*Client]bool
	logger     *slog.Logger
	mu         sync.RWMutex
}

type roomMessage struct {
	room string
	data []byte
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomMessage, 16),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.room] == nil {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if clients[client] {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.rooms[msg.room] {
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer; drop the message rather than block
					// the hub loop.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastToRoom marshals and queues a typed payload for every client in a
// room. Safe to call from any goroutine.
func (h *Hub) BroadcastToRoom(room, eventType string, payload interface{}) {
	data, err := json.Marshal(Message{Type: eventType, RoomID: room, Payload: payload})
	if err != nil {
		h.logger.Error("failed to marshal websocket message", slog.String("room", room), slog.Any("error", err))
		return
	}
	h.broadcast <- roomMessage{room: room, data: data}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and registers the connection in the given
// room.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 32), room: room}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		// Clients are read-only subscribers; discard anything they send.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
