package scoreboard

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/courtline/scoring-system/models"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

const messageMatchUpdated = "MATCH_UPDATED"

// Message is the envelope pushed to scoreboard viewers.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// RoomForMatch maps a match to its broadcast room.
func RoomForMatch(matchID string) string {
	return "game_" + matchID
}

// Client is one websocket viewer, pinned to a single match room.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	room     string
	closed   bool
	closedMu sync.Mutex
}

func NewClient(hub *Hub, conn *websocket.Conn, room string) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
		room: room,
	}
}

// Hub fans committed match updates out to the viewers of each match. One
// goroutine owns the register/unregister lifecycle; broadcasts take a read
// lock only.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Debug("scoreboard client registered",
				slog.String("room", client.room),
				slog.Int("clients", len(h.rooms[client.room])),
			)
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, okClient := clients[client]; okClient {
					client.markClosed()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

// BroadcastMatchUpdate pushes the current match record to everyone watching
// its room. Implements services.ScoreboardBroadcaster.
func (h *Hub) BroadcastMatchUpdate(match *models.Match) {
	room := RoomForMatch(match.ID)
	h.broadcastToRoom(room, Message{
		Type:    messageMatchUpdated,
		Payload: match,
		RoomID:  room,
	})
}

func (h *Hub) broadcastToRoom(roomID string, message Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal scoreboard message",
			slog.String("room", roomID),
			slog.Any("error", err),
		)
		return
	}

	for client := range clients {
		if client.isClosed() {
			continue
		}
		select {
		case client.send <- messageBytes:
		default:
			// Slow viewer: drop the update rather than block the scorer.
		}
	}
}

func (c *Client) markClosed() {
	c.closedMu.Lock()
	defer c.closedMu.Unlock()
	if !c.closed {
		close(c.send)
		c.closed = true
	}
}

func (c *Client) isClosed() bool {
	c.closedMu.Lock()
	defer c.closedMu.Unlock()
	return c.closed
}

// ReadPump drains inbound frames until the viewer disconnects. Scoreboard
// viewers are read-only; anything they send is ignored.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("scoreboard client read error",
					slog.String("room", c.room),
					slog.Any("error", err),
				)
			}
			return
		}
	}
}

// WritePump forwards queued updates and keeps the connection alive with
// pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
