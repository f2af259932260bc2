package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/himo-im/himo-server/internal/models"
	"github.com/himo-im/himo-server/internal/store"
)

// Inbound is a message received from a connected client. The stored
// message, with the author's display attributes attached, is what gets
// broadcast back out.
type Inbound struct {
	ChatID int    `json:"chat_id"`
	UserID int    `json:"-"`
	Text   string `json:"text"`
}

type notification struct {
	userID  int
	payload interface{}
}

type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages from the clients.
	broadcast chan Inbound

	// Already-stored messages to fan out (HTTP send path).
	outbound chan *models.Message

	// Per-user notifications from the HTTP handlers.
	notify chan notification

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	store store.Store
	log   *zap.SugaredLogger

	mu     sync.RWMutex
	online map[int]int // userID -> connection count
}

func NewHub(store store.Store, log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Hub{
		broadcast:  make(chan Inbound),
		outbound:   make(chan *models.Message),
		notify:     make(chan notification),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		online:     make(map[int]int),
		store:      store,
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.mu.Lock()
			h.online[client.userID]++
			h.mu.Unlock()
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.mu.Lock()
				if h.online[client.userID]--; h.online[client.userID] <= 0 {
					delete(h.online, client.userID)
				}
				h.mu.Unlock()
			}
		case in := <-h.broadcast:
			author, err := h.store.GetUserByID(in.UserID)
			if err != nil {
				h.log.Warnw("dropping message from unknown user", "user_id", in.UserID, "err", err)
				continue
			}
			if author.IsBanned {
				continue
			}

			msg, err := h.store.SaveMessage(in.ChatID, author, in.Text)
			if err != nil {
				h.log.Warnw("saving message", "chat_id", in.ChatID, "err", err)
				continue
			}
			if msg == nil {
				// whitespace-only body, dropped
				continue
			}
			h.fanOut(msg)
		case msg := <-h.outbound:
			h.fanOut(msg)
		case n := <-h.notify:
			h.deliver(n)
		}
	}
}

// fanOut delivers a stored message to connected chat members.
func (h *Hub) fanOut(msg *models.Message) {
	msgBytes, _ := json.Marshal(msg)
	for client := range h.clients {
		isMember, err := h.store.IsMember(msg.ChatID, client.userID)
		if err != nil {
			h.log.Warnw("checking membership", "chat_id", msg.ChatID, "err", err)
			continue
		}
		if !isMember {
			continue
		}
		select {
		case client.send <- msgBytes:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// Broadcast fans out a message that was already stored by the HTTP
// send path.
func (h *Hub) Broadcast(msg *models.Message) {
	h.outbound <- msg
}

// SendNotification pushes a payload to the user's live connections.
// Delivery happens on the Run loop, which owns the clients map.
func (h *Hub) SendNotification(userID int, message interface{}) {
	h.notify <- notification{userID: userID, payload: message}
}

func (h *Hub) deliver(n notification) {
	msgBytes, _ := json.Marshal(n.payload)
	for client := range h.clients {
		if client.userID == n.userID {
			select {
			case client.send <- msgBytes:
			default:
				close(client.send)
				delete(h.clients, client)
			}
		}
	}
}

// IsOnline reports whether the user has at least one live connection.
func (h *Hub) IsOnline(userID int) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.online[userID] > 0
}
