package present

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	FrameAction   = "frame"
	PointerAction = "pointer"
	EndTurnAction = "end_turn"
	WelcomeAction = "welcome"
)

// Message is the envelope for everything sent over the socket.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func encode(kind string, data any) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	msg, _ := json.Marshal(Message{Type: kind, Data: raw})
	return msg
}

// PointerData is a pointer event in world coordinates.
type PointerData struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Phase string  `json:"phase"`
}

// Command is an inbound request from a viewer, handed to the game loop.
type Command struct {
	Client  string
	Type    string
	Pointer *PointerData
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans frames out to every connected viewer and collects their
// commands on Inbox. It never touches game state itself.
type Hub struct {
	Inbox chan Command

	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	last       []byte
	mutex      sync.Mutex
	log        *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		Inbox:      make(chan Command, 64),
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        logger.WithPrefix("hub"),
	}
}

// Run serves registrations until ctx is done, then drops every client.
func (hub *Hub) Run(ctx context.Context) {
	defer close(hub.done)
	for {
		select {
		case client := <-hub.register:
			hub.mutex.Lock()
			hub.clients[client.ID] = client
			last := hub.last
			hub.mutex.Unlock()
			client.send <- encode(WelcomeAction, map[string]string{"id": client.ID})
			if last != nil {
				client.send <- last
			}
			hub.log.Info("viewer joined", "client", client.ID)
		case client := <-hub.unregister:
			hub.mutex.Lock()
			if _, ok := hub.clients[client.ID]; ok {
				delete(hub.clients, client.ID)
				close(client.send)
			}
			hub.mutex.Unlock()
			hub.log.Info("viewer left", "client", client.ID)
		case <-ctx.Done():
			hub.mutex.Lock()
			for id, client := range hub.clients {
				delete(hub.clients, id)
				close(client.send)
			}
			hub.mutex.Unlock()
			return
		}
	}
}

// Clients counts connected viewers.
func (hub *Hub) Clients() int {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	return len(hub.clients)
}

// Present broadcasts f. Viewers whose queue is full skip the frame.
func (hub *Hub) Present(f *Frame) {
	msg := encode(FrameAction, f)
	if msg == nil {
		return
	}
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.last = msg
	for _, client := range hub.clients {
		select {
		case client.send <- msg:
		default:
			hub.log.Debug("viewer slow, dropping frame", "client", client.ID)
		}
	}
}

// ServeHTTP upgrades the request to a websocket viewer.
func (hub *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Error("upgrade failed", "err", err)
		return
	}
	client := &Client{
		ID:   ulid.Make().String(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 16),
	}
	go client.writePump()
	go client.readPump()
	select {
	case hub.register <- client:
	case <-hub.done:
		close(client.send)
	}
}

type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func (client *Client) readPump() {
	defer func() {
		select {
		case client.hub.unregister <- client:
		case <-client.hub.done:
		}
		client.conn.Close()
	}()
	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error { client.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				client.hub.log.Warn("unexpected close", "client", client.ID, "err", err)
			}
			break
		}
		client.handleMessage(raw)
	}
}

func (client *Client) handleMessage(raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		client.hub.log.Warn("bad message", "client", client.ID, "err", err)
		return
	}
	cmd := Command{Client: client.ID, Type: msg.Type}
	switch msg.Type {
	case PointerAction:
		var p PointerData
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			client.hub.log.Warn("bad pointer", "client", client.ID, "err", err)
			return
		}
		cmd.Pointer = &p
	case EndTurnAction:
	default:
		client.hub.log.Debug("ignoring message", "type", msg.Type)
		return
	}
	select {
	case client.hub.Inbox <- cmd:
	default:
		client.hub.log.Warn("inbox full, dropping command", "type", cmd.Type)
	}
}

func (client *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()
	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
