package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/osjaeyoung/bbanggri-server/internal/audit"
	"github.com/osjaeyoung/bbanggri-server/internal/domain"
	"github.com/osjaeyoung/bbanggri-server/internal/hub"
	"github.com/osjaeyoung/bbanggri-server/internal/notification"
	"github.com/osjaeyoung/bbanggri-server/internal/store"
	"github.com/osjaeyoung/bbanggri-server/pkg/log"
)

type relayService struct {
	hub       *hub.Hub
	store     store.MessageStore
	pusher    notification.Pusher
	locks     *roomLock
	pushTitle string
}

func NewRelayService(h *hub.Hub, st store.MessageStore, pusher notification.Pusher, pushTitle string) RelayService {
	return &relayService{
		hub:       h,
		store:     st,
		pusher:    pusher,
		locks:     newRoomLock(),
		pushTitle: pushTitle,
	}
}

// HandleCreateRoom attaches the connection to the room, replays the
// caller's pending unread state, and fires the one-time first-contact
// notification.
func (s *relayService) HandleCreateRoom(ctx context.Context, c *hub.Client, msg *domain.CreateRoomMessage) error {
	c.Session.Tag(msg.UUIDMe)
	s.hub.JoinRoom(c, msg.RoomID)

	// The first-contact check-and-set shares the room lock with the unread
	// flip: two simultaneous joiners must not both observe the flag unset.
	unlock := s.locks.Lock(msg.RoomID)
	s.deliverUnread(ctx, c, msg)
	s.notifyFirstContact(ctx, msg.RoomID, msg.UUIDMe, msg.UUIDOther)
	unlock()

	// Anyone already waiting in the room learns the caller has caught up.
	if err := s.hub.Broadcast(msg.RoomID, c.ID, domain.NewReadSignalAck(msg.RoomID)); err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, msg.RoomID).Err(err).Msg("read ack broadcast failed")
	}

	audit.Log(ctx, audit.ActionCreateRoom, msg.RoomID, msg.UUIDMe, "participant joined room")
	return nil
}

// deliverUnread flips the caller's unread counterpart records (and the
// same indices on the other side), persists both logs, and sends the
// caller the flipped set. Must be called with the room lock held.
func (s *relayService) deliverUnread(ctx context.Context, c *hub.Client, msg *domain.CreateRoomMessage) {
	myLog, err := s.store.GetLog(ctx, msg.RoomID, msg.UUIDMe)
	if err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, msg.RoomID).Str(log.FieldUUID, msg.UUIDMe).Err(err).Msg("log load failed")
		return
	}
	otherLog, err := s.store.GetLog(ctx, msg.RoomID, msg.UUIDOther)
	if err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, msg.RoomID).Str(log.FieldUUID, msg.UUIDOther).Err(err).Msg("log load failed")
		return
	}

	if !myLog.HasUnread() {
		return
	}

	// Both logs are index-aligned: myLog[i] and otherLog[i] describe the
	// same logical message, so the read flip is applied pairwise.
	var flipped []domain.MessageRecord
	for i := range myLog {
		if myLog[i].Source == domain.SourceOther && !myLog[i].IsRead {
			myLog[i].IsRead = true
			if i < len(otherLog) {
				otherLog[i].IsRead = true
			}
			flipped = append(flipped, myLog[i])
		}
	}

	if err := s.store.PutLog(ctx, msg.RoomID, msg.UUIDMe, myLog, myLog.UnreadCount()); err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, msg.RoomID).Str(log.FieldUUID, msg.UUIDMe).Err(err).Msg("log store failed")
	}
	if err := s.store.PutLog(ctx, msg.RoomID, msg.UUIDOther, otherLog, otherLog.UnreadCount()); err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, msg.RoomID).Str(log.FieldUUID, msg.UUIDOther).Err(err).Msg("log store failed")
	}

	if err := c.SendMessage(domain.NewUnreadNotice(flipped)); err != nil {
		log.Ctx(ctx).Error().Str(log.FieldClientID, c.ID).Err(err).Msg("unread notice send failed")
	}
}

// notifyFirstContact runs at most once per room lifetime: the durable
// is_notified flag gates it, not client-side dedup. Must be called with
// the room lock held so concurrent joiners serialize on the flag.
func (s *relayService) notifyFirstContact(ctx context.Context, roomID, uuidMe, uuidOther string) {
	notified, err := s.store.GetNotifiedFlag(ctx, roomID)
	if err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, roomID).Err(err).Msg("notified flag read failed")
		return
	}
	if notified {
		return
	}

	if err := s.store.SetNotifiedFlag(ctx, roomID); err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, roomID).Err(err).Msg("notified flag set failed")
	}

	var name string
	if profile, err := s.store.GetProfile(ctx, uuidOther); err != nil {
		log.Ctx(ctx).Error().Str(log.FieldUUIDOther, uuidOther).Err(err).Msg("profile lookup failed")
	} else {
		name = profile.Name
	}

	alarm := &domain.Alarm{
		UniqueIDTo:   uuidOther,
		UniqueIDFrom: uuidMe,
		AlarmName:    fmt.Sprintf("%s님이 대화를 요청했어요!", name),
		RoomID:       roomID,
		IsRead:       false,
		AlarmTime:    time.Now().UnixMilli(),
	}
	if err := s.store.InsertAlarm(ctx, alarm); err != nil {
		log.Ctx(ctx).Error().Str(log.FieldUUIDOther, uuidOther).Err(err).Msg("alarm insert failed")
	}

	token, err := s.store.GetDeviceToken(ctx, uuidOther)
	if err != nil {
		log.Ctx(ctx).Error().Str(log.FieldUUIDOther, uuidOther).Err(err).Msg("device token lookup failed")
		return
	}

	data := map[string]string{
		"type":      "alarm",
		"alarmName": alarm.AlarmName,
		"isRead":    strconv.FormatBool(alarm.IsRead),
		"alarmTime": strconv.FormatInt(alarm.AlarmTime, 10),
	}
	if err := s.pusher.Push(ctx, token, s.pushTitle, alarm.AlarmName, data); err != nil {
		log.Ctx(ctx).Error().Str(log.FieldUUIDOther, uuidOther).Err(err).Msg("first-contact push failed")
		return
	}

	audit.Log(ctx, audit.ActionFirstContact, roomID, uuidMe, "first-contact notification sent")
}

func (s *relayService) HandleChat(ctx context.Context, c *hub.Client, msg *domain.ChatMessage) error {
	audit.LogWithDetail(ctx, audit.ActionChat, msg.RoomID, msg.Payload.UUIDMe,
		strconv.FormatInt(msg.Payload.MsgID, 10), "chat message")
	return s.relayMessage(ctx, c, msg, false)
}

func (s *relayService) HandlePromise(ctx context.Context, c *hub.Client, msg *domain.ChatMessage) error {
	audit.LogWithDetail(ctx, audit.ActionPromise, msg.RoomID, msg.Payload.UUIDMe,
		strconv.FormatInt(msg.Payload.MsgID, 10), "promise message")
	return s.relayMessage(ctx, c, msg, true)
}

// relayMessage is the shared chat/promise pipeline: mirror the event into
// both participants' logs, refresh both summaries, then either broadcast
// to the live counterpart or fall back to a push. Broadcast and push are
// mutually exclusive.
func (s *relayService) relayMessage(ctx context.Context, c *hub.Client, msg *domain.ChatMessage, promise bool) error {
	p := msg.Payload

	if !s.hub.HasRoom(msg.RoomID) {
		log.Ctx(ctx).Warn().Str(log.FieldRoomID, msg.RoomID).Str(log.FieldUUID, p.UUIDMe).
			Int64(log.FieldMsgID, p.MsgID).Msg("message for unknown room dropped")
		return nil
	}

	unlock := s.locks.Lock(msg.RoomID)
	defer unlock()

	myLog, err := s.store.GetLog(ctx, msg.RoomID, p.UUIDMe)
	if err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, msg.RoomID).Str(log.FieldUUID, p.UUIDMe).Err(err).Msg("log load failed")
		return nil
	}
	otherLog, err := s.store.GetLog(ctx, msg.RoomID, p.UUIDOther)
	if err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, msg.RoomID).Str(log.FieldUUIDOther, p.UUIDOther).Err(err).Msg("log load failed")
		return nil
	}

	sourceMe, sourceOther := domain.SourceMe, domain.SourceOther
	if promise {
		sourceMe, sourceOther = domain.SourcePromise, domain.SourcePromise
	}

	myLog = append(myLog, domain.MessageRecord{MsgID: p.MsgID, Source: sourceMe, Msg: p.Msg})
	otherLog = append(otherLog, domain.MessageRecord{MsgID: p.MsgID, Source: sourceOther, Msg: p.Msg})

	if err := s.store.PutLog(ctx, msg.RoomID, p.UUIDMe, myLog, myLog.UnreadCount()); err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, msg.RoomID).Str(log.FieldUUID, p.UUIDMe).Err(err).Msg("log store failed")
	}
	if err := s.store.PutLog(ctx, msg.RoomID, p.UUIDOther, otherLog, otherLog.UnreadCount()); err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, msg.RoomID).Str(log.FieldUUID, p.UUIDOther).Err(err).Msg("log store failed")
	}
	if err := s.store.UpdateSummary(ctx, msg.RoomID, p.UUIDMe, p.Msg, p.MsgID); err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, msg.RoomID).Str(log.FieldUUID, p.UUIDMe).Err(err).Msg("summary update failed")
	}
	if err := s.store.UpdateSummary(ctx, msg.RoomID, p.UUIDOther, p.Msg, p.MsgID); err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, msg.RoomID).Str(log.FieldUUID, p.UUIDOther).Err(err).Msg("summary update failed")
	}

	if s.hub.MembersCount(msg.RoomID) == 1 {
		// Counterpart is offline: no broadcast, push instead.
		s.pushFallback(ctx, msg.RoomID, p)
		return nil
	}

	relaySource := domain.SourceOther
	if promise {
		relaySource = domain.SourcePromise
	}
	if err := s.hub.Broadcast(msg.RoomID, c.ID, domain.NewRelayFrame(p, relaySource)); err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, msg.RoomID).Err(err).Msg("relay broadcast failed")
	}
	return nil
}

// pushFallback builds the message-preview push for an offline
// counterpart. Lookup failures are logged and swallowed; the log mutation
// they follow stays committed.
func (s *relayService) pushFallback(ctx context.Context, roomID string, p domain.ChatPayload) {
	token, err := s.store.GetDeviceToken(ctx, p.UUIDOther)
	if err != nil {
		log.Ctx(ctx).Error().Str(log.FieldUUIDOther, p.UUIDOther).Err(err).Msg("device token lookup failed")
		return
	}

	var profile domain.Profile
	if prof, err := s.store.GetProfile(ctx, p.UUIDMe); err != nil {
		log.Ctx(ctx).Error().Str(log.FieldUUID, p.UUIDMe).Err(err).Msg("profile lookup failed")
	} else {
		profile = *prof
	}

	reqID, err := s.store.GetRequestID(ctx, roomID)
	if err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, roomID).Err(err).Msg("request id lookup failed")
	}

	notReadCount, err := s.store.GetNotReadCount(ctx, roomID, p.UUIDOther)
	if err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, roomID).Str(log.FieldUUIDOther, p.UUIDOther).Err(err).Msg("unread count lookup failed")
	}

	data := map[string]string{
		"type":         "message",
		"roomId":       roomID,
		"reqId":        reqID,
		"lastmsg":      p.Msg,
		"chatTime":     strconv.FormatInt(p.MsgID, 10),
		"uuidOther":    p.UUIDMe,
		"name":         profile.Name,
		"cellphone":    profile.Cellphone,
		"profileImg":   profile.ProfileImg,
		"location":     profile.Location,
		"notReadCount": strconv.Itoa(notReadCount),
	}

	if err := s.pusher.Push(ctx, token, s.pushTitle, p.Msg, data); err != nil {
		log.Ctx(ctx).Error().Str(log.FieldUUIDOther, p.UUIDOther).Err(err).Msg("push fallback failed")
		return
	}

	audit.Log(ctx, audit.ActionPushFallback, roomID, p.UUIDOther, "push fallback delivered")
}

// HandleReadSignal applies a full-log read receipt to both participants'
// logs. Applying it twice yields the same end state.
func (s *relayService) HandleReadSignal(ctx context.Context, c *hub.Client, msg *domain.ReadSignalMessage) error {
	if msg.Status != domain.ReadSignalStatusOK || msg.Signal != domain.ReadSignalOK {
		log.Ctx(ctx).Warn().Str(log.FieldRoomID, msg.RoomID).Int("status", msg.Status).Msg("unhandled read signal dropped")
		return nil
	}

	if err := s.hub.Broadcast(msg.RoomID, c.ID, domain.NewReadSignalAck(msg.RoomID)); err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, msg.RoomID).Err(err).Msg("read ack broadcast failed")
	}

	unlock := s.locks.Lock(msg.RoomID)
	defer unlock()

	myLog, err := s.store.GetLog(ctx, msg.RoomID, msg.UUIDMe)
	if err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, msg.RoomID).Str(log.FieldUUID, msg.UUIDMe).Err(err).Msg("log load failed")
		return nil
	}
	otherLog, err := s.store.GetLog(ctx, msg.RoomID, msg.UUIDOther)
	if err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, msg.RoomID).Str(log.FieldUUID, msg.UUIDOther).Err(err).Msg("log load failed")
		return nil
	}

	myLog.MarkAllRead()
	otherLog.MarkAllRead()

	if err := s.store.PutLog(ctx, msg.RoomID, msg.UUIDMe, myLog, myLog.UnreadCount()); err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, msg.RoomID).Str(log.FieldUUID, msg.UUIDMe).Err(err).Msg("log store failed")
	}
	if err := s.store.PutLog(ctx, msg.RoomID, msg.UUIDOther, otherLog, otherLog.UnreadCount()); err != nil {
		log.Ctx(ctx).Error().Str(log.FieldRoomID, msg.RoomID).Str(log.FieldUUID, msg.UUIDOther).Err(err).Msg("log store failed")
	}

	audit.Log(ctx, audit.ActionReadSignal, msg.RoomID, msg.UUIDMe, "read receipt applied")
	return nil
}

// HandleDisconnect removes the tagged connection from the room. Unknown
// uuid is a no-op; emptying the room removes its registry entry.
func (s *relayService) HandleDisconnect(ctx context.Context, c *hub.Client, msg *domain.DisconnectMessage) error {
	if removed := s.hub.RemoveParticipant(msg.RoomID, msg.UUID); !removed {
		log.Ctx(ctx).Debug().Str(log.FieldRoomID, msg.RoomID).Str(log.FieldUUID, msg.UUID).Msg("disconnect for absent participant")
		return nil
	}

	audit.Log(ctx, audit.ActionDisconnect, msg.RoomID, msg.UUID, "participant disconnected")
	return nil
}
