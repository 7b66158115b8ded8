package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/osjaeyoung/bbanggri-server/internal/config"
	"github.com/osjaeyoung/bbanggri-server/internal/domain"
	"github.com/osjaeyoung/bbanggri-server/internal/hub"
	"github.com/osjaeyoung/bbanggri-server/internal/service"
	"github.com/osjaeyoung/bbanggri-server/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSHandler struct {
	hub     *hub.Hub
	service service.RelayService
	wsCfg   config.WebSocketConfig
}

func NewWSHandler(h *hub.Hub, svc service.RelayService, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:     h,
		service: svc,
		wsCfg:   wsCfg,
	}
}

func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.L().Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsCfg)

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleMessage)
}

// handleMessage dispatches one inbound frame. Malformed frames are logged
// and dropped; the protocol never echoes an error back to the sender.
func (h *WSHandler) handleMessage(client *hub.Client, message []byte) {
	var base domain.BaseMessage
	if err := json.Unmarshal(message, &base); err != nil {
		log.L().Warn().Str(log.FieldClientID, client.ID).Err(err).Msg("unparseable frame dropped")
		return
	}

	ctx := context.Background()

	switch base.Type {
	case domain.MsgTypeCreateRoom:
		var msg domain.CreateRoomMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.L().Warn().Str(log.FieldClientID, client.ID).Err(err).Msg("invalid create_room frame dropped")
			return
		}
		if err := h.service.HandleCreateRoom(ctx, client, &msg); err != nil {
			log.L().Error().Str(log.FieldClientID, client.ID).Err(err).Msg("create_room failed")
		}

	case domain.MsgTypeChat:
		var msg domain.ChatMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.L().Warn().Str(log.FieldClientID, client.ID).Err(err).Msg("invalid chat frame dropped")
			return
		}
		if err := h.service.HandleChat(ctx, client, &msg); err != nil {
			log.L().Error().Str(log.FieldClientID, client.ID).Err(err).Msg("chat failed")
		}

	case domain.MsgTypePromise:
		var msg domain.ChatMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.L().Warn().Str(log.FieldClientID, client.ID).Err(err).Msg("invalid promise frame dropped")
			return
		}
		if err := h.service.HandlePromise(ctx, client, &msg); err != nil {
			log.L().Error().Str(log.FieldClientID, client.ID).Err(err).Msg("promise failed")
		}

	case domain.MsgTypeReadSignal:
		var msg domain.ReadSignalMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.L().Warn().Str(log.FieldClientID, client.ID).Err(err).Msg("invalid read_signal frame dropped")
			return
		}
		if err := h.service.HandleReadSignal(ctx, client, &msg); err != nil {
			log.L().Error().Str(log.FieldClientID, client.ID).Err(err).Msg("read_signal failed")
		}

	case domain.MsgTypeDisconnect:
		var msg domain.DisconnectMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.L().Warn().Str(log.FieldClientID, client.ID).Err(err).Msg("invalid disconnect frame dropped")
			return
		}
		if err := h.service.HandleDisconnect(ctx, client, &msg); err != nil {
			log.L().Error().Str(log.FieldClientID, client.ID).Err(err).Msg("disconnect failed")
		}

	default:
		log.L().Warn().Str(log.FieldClientID, client.ID).Str(log.FieldMsgType, base.Type).Msg("unknown frame type dropped")
	}
}

func (h *WSHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.HandleWebSocket)
}
