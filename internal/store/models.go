package store

import (
	"time"

	"gorm.io/datatypes"
)

// Chatting is one participant's side of a room: the mirrored message log
// plus the summary fields the app's chat list renders. Every room has two
// rows, one per participant; is_notified is duplicated across both and
// read from either.
type Chatting struct {
	ID           uint64         `gorm:"primarykey"`
	RoomID       string         `gorm:"column:room_id;size:64;uniqueIndex:idx_room_me,priority:1;not null"`
	UniqueIDMe   string         `gorm:"column:unique_id_me;size:64;uniqueIndex:idx_room_me,priority:2;not null"`
	ReqIDFk      string         `gorm:"column:req_id_fk;size:64"`
	Message      datatypes.JSON `gorm:"column:message"`
	NotReadCount int            `gorm:"column:not_read_count;default:0"`
	LastMsg      string         `gorm:"column:last_msg"`
	LastChatTime int64          `gorm:"column:last_chat_time"`
	IsNotified   bool           `gorm:"column:is_notified;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Chatting) TableName() string { return "chattings" }

// UserFCMToken maps a participant to their registered device token.
type UserFCMToken struct {
	ID       uint64 `gorm:"primarykey"`
	UniqueID string `gorm:"column:unique_id;size:64;uniqueIndex;not null"`
	Token    string `gorm:"column:token;not null"`
}

func (UserFCMToken) TableName() string { return "user_fcm_token" }

// UserProfile carries the sender fields included in push payloads.
type UserProfile struct {
	ID         uint64 `gorm:"primarykey"`
	UniqueID   string `gorm:"column:unique_id;size:64;uniqueIndex;not null"`
	Name       string `gorm:"column:name"`
	Cellphone  string `gorm:"column:cellphone"`
	ProfileImg string `gorm:"column:profile_img"`
	Location   string `gorm:"column:location"`
}

func (UserProfile) TableName() string { return "profiles" }

// AlarmRecord is the durable first-contact notification.
type AlarmRecord struct {
	ID           uint64 `gorm:"primarykey"`
	UniqueIDTo   string `gorm:"column:unique_id_to;size:64;index;not null"`
	UniqueIDFrom string `gorm:"column:unique_id_from;size:64;not null"`
	AlarmName    string `gorm:"column:alarm_name"`
	RoomID       string `gorm:"column:room_id;size:64;index"`
	IsRead       bool   `gorm:"column:is_read;default:false"`
	AlarmTime    int64  `gorm:"column:alarm_time"`
}

func (AlarmRecord) TableName() string { return "alarm" }

// Models lists every table for auto-migration.
func Models() []interface{} {
	return []interface{}{&Chatting{}, &UserFCMToken{}, &UserProfile{}, &AlarmRecord{}}
}
