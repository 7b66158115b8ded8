package log

const (
	// Relay
	FieldRoomID    = "room_id"
	FieldUUID      = "uuid"
	FieldUUIDOther = "uuid_other"
	FieldMsgID     = "msg_id"
	FieldMsgType   = "msg_type"
	FieldClientID  = "client_id"

	// Service
	FieldService = "service"

	// Log type (for audit log)
	FieldLogType = "log_type"
	LogTypeAudit = "audit"
)
