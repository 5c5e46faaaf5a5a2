package ws

import (
	"encoding/json"
	"log"
	"sync"

	"methodquiz/internal/metrics"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgSubscribed        MessageType = "subscribed"
	MsgSubmissionCreated MessageType = "submission_created"
	MsgError             MessageType = "error"
)

// AllFeeds receives submissions of every quiz type
const AllFeeds = "*"

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Feed    string          `json:"feed"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub fans new submissions out to reviewers subscribed to a quiz type
type Hub struct {
	// feed -> connections
	feeds map[string]map[*Connection]struct{}

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	Feed      string
	LearnerID string
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	Feed    string
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		feeds:      make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.feeds[conn.Feed] == nil {
				h.feeds[conn.Feed] = make(map[*Connection]struct{})
			}
			h.feeds[conn.Feed][conn] = struct{}{}
			h.mu.Unlock()
			metrics.ReviewerConnected()
			log.Printf("[WS] Reviewer subscribed to feed %s", conn.Feed)

			data, _ := json.Marshal(&Message{Type: MsgSubscribed, Feed: conn.Feed})
			select {
			case conn.Send <- data:
			default:
			}

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.feeds[conn.Feed]; ok {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
					if len(conns) == 0 {
						delete(h.feeds, conn.Feed)
					}
					close(conn.Send)
					metrics.ReviewerDisconnected()
					log.Printf("[WS] Reviewer left feed %s", conn.Feed)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			h.deliver(msg.Feed, data)
			if msg.Feed != AllFeeds {
				h.deliver(AllFeeds, data)
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) deliver(feed string, data []byte) {
	for conn := range h.feeds[feed] {
		select {
		case conn.Send <- data:
		default:
			// Drop message if buffer full
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Subscribers counts the connections on a feed
func (h *Hub) Subscribers(feed string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.feeds[feed])
}

// BroadcastToFeed sends a message to every reviewer of a quiz type (implements service.Broadcaster)
func (h *Hub) BroadcastToFeed(quizType string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		Feed: quizType,
		Message: &Message{
			Type:    MessageType(msgType),
			Feed:    quizType,
			Payload: data,
		},
	}
}
