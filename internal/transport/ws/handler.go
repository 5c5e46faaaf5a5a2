package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"methodquiz/internal/quiz"
	"methodquiz/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler handles WebSocket connections
type Handler struct {
	hub         *Hub
	authSvc     *service.AuthService
	catalog     quiz.Catalog
	requireAuth bool
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authSvc *service.AuthService, catalog quiz.Catalog, requireAuth bool) *Handler {
	return &Handler{
		hub:         hub,
		authSvc:     authSvc,
		catalog:     catalog,
		requireAuth: requireAuth,
	}
}

// SubmissionsWS handles GET /v1/ws/submissions?type={quizType}
func (h *Handler) SubmissionsWS(w http.ResponseWriter, r *http.Request) {
	feed := r.URL.Query().Get("type")
	if feed == "" {
		feed = AllFeeds
	} else if _, err := h.catalog.Lookup(feed); err != nil {
		http.Error(w, "unknown quiz type", http.StatusBadRequest)
		return
	}

	var learnerID string
	if token := r.URL.Query().Get("token"); token != "" {
		claims, err := h.authSvc.ValidateLearnerToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		learnerID = claims.LearnerID
	} else if h.requireAuth {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	conn := &Connection{
		Feed:      feed,
		LearnerID: learnerID,
		Send:      make(chan []byte, 256),
		Hub:       h.hub,
	}

	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// the feed is one-way; reads only keep the deadline alive
		if _, _, err := wsConn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Error: %v", err)
			}
			break
		}
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
