package websocket

import (
	"encoding/base64"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"safetywatch/internal/logger"
	"safetywatch/internal/model"
)

// frameMessage carries an annotated frame to connected viewers.
type frameMessage struct {
	Type  string `json:"type"`
	Image string `json:"image"`
}

// eventMessage carries a violation event to connected viewers.
type eventMessage struct {
	Type  string                `json:"type"`
	Event *model.ViolationEvent `json:"event"`
}

// HubService fans annotated frames and violation events out to connected
// WebSocket viewers.
type HubService struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
	logger     *logger.Logger
}

func NewHubService(logger *logger.Logger) *HubService {
	return &HubService{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 8),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		logger:     logger,
	}
}

func (h *HubService) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.logger.Info("Viewer connected. Total: %d", h.GetClientCount())

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mutex.Unlock()
			h.logger.Info("Viewer disconnected. Total: %d", h.GetClientCount())

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Error("Error sending message to viewer: %v", err)
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mutex.Unlock()
		}
	}
}

func (h *HubService) Register(client *websocket.Conn) {
	h.register <- client
}

func (h *HubService) Unregister(client *websocket.Conn) {
	h.unregister <- client
}

// BroadcastFrame sends an annotated JPEG frame to all viewers. Frames are
// dropped when the broadcast channel is full so the processing loop never
// blocks on slow viewers.
func (h *HubService) BroadcastFrame(jpeg []byte) {
	if h.GetClientCount() == 0 {
		return
	}

	msg, err := json.Marshal(frameMessage{
		Type:  "frame",
		Image: base64.StdEncoding.EncodeToString(jpeg),
	})
	if err != nil {
		h.logger.Error("Error encoding frame message: %v", err)
		return
	}

	select {
	case h.broadcast <- msg:
	default:
	}
}

// BroadcastEvent sends a violation event to all viewers.
func (h *HubService) BroadcastEvent(event *model.ViolationEvent) {
	if h.GetClientCount() == 0 {
		return
	}

	msg, err := json.Marshal(eventMessage{Type: "violation", Event: event})
	if err != nil {
		h.logger.Error("Error encoding event message: %v", err)
		return
	}

	select {
	case h.broadcast <- msg:
	default:
	}
}

func (h *HubService) GetClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
