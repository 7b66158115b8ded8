package hub

import (
	"encoding/json"
	"sync"

	"github.com/osjaeyoung/bbanggri-server/pkg/log"
)

// Hub is the in-memory room registry: roomID -> clientID -> client.
// It is created at startup, injected into the relay service, and is the
// only owner of room membership state. A room entry exists while at least
// one connection is attached; the durable rows in the store outlive it.
type Hub struct {
	clients    map[string]*Client            // clientID -> client
	rooms      map[string]map[string]*Client // roomID -> clientID -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *roomMessage
	mu         sync.RWMutex
}

type roomMessage struct {
	RoomID  string
	Message []byte
	Exclude string // client ID to exclude
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *roomMessage, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.L().Debug().Str(log.FieldClientID, client.ID).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				// Transport close and explicit disconnect converge on
				// removeFromRoom, so a dropped connection never lingers
				// in a room's membership set.
				for roomID, members := range h.rooms {
					if _, in := members[client.ID]; in {
						h.removeFromRoom(client.ID, roomID)
					}
				}
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.L().Debug().Str(log.FieldClientID, client.ID).Msg("client unregistered")

		case msg := <-h.broadcast:
			h.mu.RLock()
			if members, ok := h.rooms[msg.RoomID]; ok {
				for clientID, client := range members {
					if clientID == msg.Exclude {
						continue
					}
					// A connection may close between the registry read and
					// this send; a full or closed buffer drops the client.
					select {
					case client.Send <- msg.Message:
					default:
						go h.removeClient(client)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// JoinRoom attaches a client to a room, creating the registry entry on
// first join.
func (h *Hub) JoinRoom(client *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[string]*Client)
		log.L().Info().Str(log.FieldRoomID, roomID).Msg("room created in registry")
	}
	h.rooms[roomID][client.ID] = client
	log.L().Info().Str(log.FieldClientID, client.ID).Str(log.FieldRoomID, roomID).Msg("client joined room")
}

// LeaveRoom detaches a client from a room and removes the room entry when
// the membership set becomes empty.
func (h *Hub) LeaveRoom(client *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoom(client.ID, roomID)
}

// RemoveParticipant detaches the open connection tagged with uuid from a
// room. Unknown uuid or room is a no-op; the removed client stays
// registered with the hub (its transport is still alive).
func (h *Hub) RemoveParticipant(roomID, uuid string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[roomID]
	if !ok {
		return false
	}
	for clientID, client := range members {
		if client.Session.UUID() == uuid && !client.Closed() {
			h.removeFromRoom(clientID, roomID)
			return true
		}
	}
	return false
}

// removeFromRoom must be called with h.mu held.
func (h *Hub) removeFromRoom(clientID, roomID string) {
	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, clientID)
	log.L().Info().Str(log.FieldClientID, clientID).Str(log.FieldRoomID, roomID).Msg("client left room")
	if len(members) == 0 {
		delete(h.rooms, roomID)
		log.L().Info().Str(log.FieldRoomID, roomID).Msg("room empty, removed from registry")
	}
}

// HasRoom reports whether a room is currently known to the registry.
func (h *Hub) HasRoom(roomID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[roomID]
	return ok
}

// MembersCount returns the number of connections attached to a room.
func (h *Hub) MembersCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Broadcast sends a frame to every other attached connection in the room.
// An absent room or a room without other members is a no-op, not an error.
func (h *Hub) Broadcast(roomID, exclude string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.broadcast <- &roomMessage{
		RoomID:  roomID,
		Message: data,
		Exclude: exclude,
	}
	return nil
}

func (h *Hub) removeClient(client *Client) {
	h.unregister <- client
}
