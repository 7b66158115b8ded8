package store

import (
	"context"

	"github.com/osjaeyoung/bbanggri-server/internal/domain"
)

// MessageStore is the durable side of the relay: per-(room, participant)
// mirrored message logs, per-row summary fields, and the lookups the push
// fallback needs. Implementations are external collaborators; the engine
// treats every call as latency-bearing I/O.
type MessageStore interface {
	GetLog(ctx context.Context, roomID, uuid string) (domain.ParticipantLog, error)
	PutLog(ctx context.Context, roomID, uuid string, messages domain.ParticipantLog, notReadCount int) error
	UpdateSummary(ctx context.Context, roomID, uuid, lastMsg string, lastTime int64) error

	GetNotifiedFlag(ctx context.Context, roomID string) (bool, error)
	SetNotifiedFlag(ctx context.Context, roomID string) error
	GetRequestID(ctx context.Context, roomID string) (string, error)
	GetNotReadCount(ctx context.Context, roomID, uuid string) (int, error)

	GetDeviceToken(ctx context.Context, uuid string) (string, error)
	GetProfile(ctx context.Context, uuid string) (*domain.Profile, error)
	InsertAlarm(ctx context.Context, alarm *domain.Alarm) error
}
