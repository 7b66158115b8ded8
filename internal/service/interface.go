package service

import (
	"context"

	"github.com/osjaeyoung/bbanggri-server/internal/domain"
	"github.com/osjaeyoung/bbanggri-server/internal/hub"
)

// RelayService is the protocol engine: one handler per inbound message
// type. Handlers are stateless across invocations except via the hub and
// the message store; each handles its frame as one atomic logical
// transaction.
type RelayService interface {
	HandleCreateRoom(ctx context.Context, client *hub.Client, msg *domain.CreateRoomMessage) error
	HandleChat(ctx context.Context, client *hub.Client, msg *domain.ChatMessage) error
	HandlePromise(ctx context.Context, client *hub.Client, msg *domain.ChatMessage) error
	HandleReadSignal(ctx context.Context, client *hub.Client, msg *domain.ReadSignalMessage) error
	HandleDisconnect(ctx context.Context, client *hub.Client, msg *domain.DisconnectMessage) error
}
