package domain

// Message sources inside a participant log. A chat event is mirrored as
// "me" in the sender's own log and "other" in the counterpart's log;
// promise events carry "promise" on both sides.
const (
	SourceMe      = "me"
	SourceOther   = "other"
	SourcePromise = "promise"
)

// MessageRecord is one entry of a participant's mirrored message log.
// MsgID is the client-supplied epoch time in milliseconds; the payload in
// Msg is opaque (it may be pre-encoded by the app).
type MessageRecord struct {
	MsgID  int64  `json:"msgId"`
	Source string `json:"source"`
	Msg    string `json:"msg"`
	IsRead bool   `json:"isRead"`
}

// ParticipantLog is the ordered mirror of a room's messages for one
// participant. Append-only except for IsRead flips; both participants'
// logs in a room stay index-aligned.
type ParticipantLog []MessageRecord

// UnreadCount counts records received from the counterpart that have not
// been read yet. notReadCount in the store must always equal this value.
func (l ParticipantLog) UnreadCount() int {
	n := 0
	for _, r := range l {
		if r.Source == SourceOther && !r.IsRead {
			n++
		}
	}
	return n
}

// HasUnread reports whether any counterpart record is still unread.
func (l ParticipantLog) HasUnread() bool {
	for _, r := range l {
		if r.Source == SourceOther && !r.IsRead {
			return true
		}
	}
	return false
}

// MarkAllRead flips every record to read, regardless of source.
func (l ParticipantLog) MarkAllRead() {
	for i := range l {
		l[i].IsRead = true
	}
}

// Profile carries the sender fields attached to push notifications.
type Profile struct {
	UniqueID   string
	Name       string
	Cellphone  string
	ProfileImg string
	Location   string
}

// Alarm is the durable first-contact notification record.
type Alarm struct {
	UniqueIDTo   string
	UniqueIDFrom string
	AlarmName    string
	RoomID       string
	IsRead       bool
	AlarmTime    int64
}
