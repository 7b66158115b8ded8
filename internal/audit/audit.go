package audit

import (
	"context"

	"github.com/osjaeyoung/bbanggri-server/pkg/log"
)

// Audit actions for the relay protocol.
const (
	ActionCreateRoom   = "relay.create_room"
	ActionChat         = "relay.chat"
	ActionPromise      = "relay.promise"
	ActionReadSignal   = "relay.read_signal"
	ActionDisconnect   = "relay.disconnect"
	ActionPushFallback = "relay.push_fallback"
	ActionFirstContact = "relay.first_contact"
)

// Field constants for audit entries.
const (
	FieldAction = "action"
	FieldDetail = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action, roomID, uuid, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldRoomID, roomID).
		Str(log.FieldUUID, uuid).
		Msg(msg)
}

// LogWithDetail emits an audit log with an extra detail field.
func LogWithDetail(ctx context.Context, action, roomID, uuid, detail, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldRoomID, roomID).
		Str(log.FieldUUID, uuid).
		Str(FieldDetail, detail).
		Msg(msg)
}
