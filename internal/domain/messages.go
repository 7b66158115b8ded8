package domain

// WebSocket message types from client.
const (
	MsgTypeCreateRoom = "create_room"
	MsgTypeChat       = "chat"
	MsgTypePromise    = "promise"
	MsgTypeReadSignal = "read_signal"
	MsgTypeDisconnect = "disconnect"
)

// Message types inside outbound frames.
const (
	MsgTypeNotReadMsg = "notReadMsg"
)

// read_signal handshake values.
const (
	ReadSignalStatusOK = 100
	ReadSignalOK       = "ok"
)

// BaseMessage is the base structure for all inbound WebSocket messages.
type BaseMessage struct {
	Type string `json:"type"`
}

// Client -> Server messages

type CreateRoomMessage struct {
	Type      string `json:"type"`
	RoomID    string `json:"roomId"`
	UUIDMe    string `json:"uuidMe"`
	UUIDOther string `json:"uuidOther"`
}

// ChatPayload is carried by both chat and promise frames; on relay the
// server rewrites Source before fan-out.
type ChatPayload struct {
	MsgID     int64  `json:"msgId"`
	UUIDMe    string `json:"uuidMe"`
	UUIDOther string `json:"uuidOther"`
	Msg       string `json:"msg"`
	Source    string `json:"source,omitempty"`
	IsRead    bool   `json:"isRead,omitempty"`
}

type ChatMessage struct {
	Type    string      `json:"type"`
	RoomID  string      `json:"roomId"`
	Payload ChatPayload `json:"payload"`
}

type ReadSignalMessage struct {
	Type      string `json:"type"`
	Status    int    `json:"status"`
	Signal    string `json:"signal"`
	RoomID    string `json:"roomId"`
	UUIDMe    string `json:"uuidMe"`
	UUIDOther string `json:"uuidOther"`
}

type DisconnectMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	UUID   string `json:"uuid"`
}

// Server -> Client messages. Every outbound frame is wrapped in an
// Envelope: {"payload": {...}}.

type Envelope struct {
	Payload interface{} `json:"payload"`
}

// ReadSignalAck acknowledges read state to the other side of the room.
type ReadSignalAck struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	Msg    string `json:"msg"`
	Status int    `json:"status"`
}

func NewReadSignalAck(roomID string) *Envelope {
	return &Envelope{Payload: &ReadSignalAck{
		Type:   MsgTypeReadSignal,
		RoomID: roomID,
		Msg:    ReadSignalOK,
		Status: ReadSignalStatusOK,
	}}
}

// UnreadNotice lists the records flipped to read when a participant
// rejoins a room with pending messages.
type UnreadNotice struct {
	Type       string          `json:"type"`
	NotReadMsg []MessageRecord `json:"notReadMsg"`
}

func NewUnreadNotice(records []MessageRecord) *Envelope {
	return &Envelope{Payload: &UnreadNotice{
		Type:       MsgTypeNotReadMsg,
		NotReadMsg: records,
	}}
}

// NewRelayFrame wraps a chat/promise payload for fan-out with the source
// rewritten for the receiving side.
func NewRelayFrame(p ChatPayload, source string) *Envelope {
	p.Source = source
	return &Envelope{Payload: &p}
}
