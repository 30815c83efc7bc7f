package handlers

import (
	"log/slog"
	"net/http"

	"github.com/courtline/scoring-system/scoreboard"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// A public read-only scoreboard: any origin may watch.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub    *scoreboard.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *scoreboard.Hub, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
	}
}

// ServeWs handles GET /ws/games/{gameID}: it upgrades the connection and
// subscribes the viewer to that match's broadcast room.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error to the client.
		h.logger.Error("websocket upgrade failed",
			slog.String("game_id", gameID),
			slog.Any("error", err),
		)
		return
	}

	client := scoreboard.NewClient(h.hub, conn, scoreboard.RoomForMatch(gameID))
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
