package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/osjaeyoung/bbanggri-server/internal/domain"
	"github.com/osjaeyoung/bbanggri-server/pkg/database"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()

	db, err := database.New(&database.Config{
		Driver:   "sqlite",
		FilePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, Models()...))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.Close()
	})

	return NewGormStore(db)
}

func seedRoom(t *testing.T, s *GormStore, roomID, uuidA, uuidB string) {
	t.Helper()
	for _, uuid := range []string{uuidA, uuidB} {
		require.NoError(t, s.db.Create(&Chatting{
			RoomID:     roomID,
			UniqueIDMe: uuid,
			ReqIDFk:    "req-" + roomID,
		}).Error)
	}
}

func TestGetLog_EmptyRow(t *testing.T) {
	s := newTestStore(t)
	seedRoom(t, s, "R1", "u1", "u2")

	messages, err := s.GetLog(context.Background(), "R1", "u1")
	require.NoError(t, err)
	require.Empty(t, messages)
}

func TestGetLog_MissingRow(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetLog(context.Background(), "ghost", "u1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPutLog_Roundtrip(t *testing.T) {
	s := newTestStore(t)
	seedRoom(t, s, "R1", "u1", "u2")
	ctx := context.Background()

	messages := domain.ParticipantLog{
		{MsgID: 1000, Source: domain.SourceMe, Msg: "hi"},
		{MsgID: 1001, Source: domain.SourceOther, Msg: "hey", IsRead: true},
	}
	require.NoError(t, s.PutLog(ctx, "R1", "u1", messages, 0))

	got, err := s.GetLog(ctx, "R1", "u1")
	require.NoError(t, err)
	require.Equal(t, messages, got)

	// The counterpart's row is untouched.
	other, err := s.GetLog(ctx, "R1", "u2")
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestPutLog_MissingRowErrors(t *testing.T) {
	s := newTestStore(t)

	err := s.PutLog(context.Background(), "ghost", "u1", domain.ParticipantLog{}, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no chatting row")
}

func TestNotReadCount_PersistedWithLog(t *testing.T) {
	s := newTestStore(t)
	seedRoom(t, s, "R1", "u1", "u2")
	ctx := context.Background()

	messages := domain.ParticipantLog{
		{MsgID: 1, Source: domain.SourceOther, Msg: "a"},
		{MsgID: 2, Source: domain.SourceOther, Msg: "b"},
	}
	require.NoError(t, s.PutLog(ctx, "R1", "u2", messages, messages.UnreadCount()))

	count, err := s.GetNotReadCount(ctx, "R1", "u2")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestNotifiedFlag_SetCoversBothRows(t *testing.T) {
	s := newTestStore(t)
	seedRoom(t, s, "R1", "u1", "u2")
	ctx := context.Background()

	notified, err := s.GetNotifiedFlag(ctx, "R1")
	require.NoError(t, err)
	require.False(t, notified)

	require.NoError(t, s.SetNotifiedFlag(ctx, "R1"))

	var rows []Chatting
	require.NoError(t, s.db.Where("room_id = ?", "R1").Find(&rows).Error)
	require.Len(t, rows, 2)
	for _, row := range rows {
		require.True(t, row.IsNotified)
	}

	notified, err = s.GetNotifiedFlag(ctx, "R1")
	require.NoError(t, err)
	require.True(t, notified)
}

func TestUpdateSummary(t *testing.T) {
	s := newTestStore(t)
	seedRoom(t, s, "R1", "u1", "u2")
	ctx := context.Background()

	require.NoError(t, s.UpdateSummary(ctx, "R1", "u1", "last words", 1700000000000))

	var row Chatting
	require.NoError(t, s.db.Where("room_id = ? AND unique_id_me = ?", "R1", "u1").First(&row).Error)
	require.Equal(t, "last words", row.LastMsg)
	require.Equal(t, int64(1700000000000), row.LastChatTime)
}

func TestGetRequestID(t *testing.T) {
	s := newTestStore(t)
	seedRoom(t, s, "R1", "u1", "u2")

	reqID, err := s.GetRequestID(context.Background(), "R1")
	require.NoError(t, err)
	require.Equal(t, "req-R1", reqID)
}

func TestDeviceTokenAndProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.db.Create(&UserFCMToken{UniqueID: "u1", Token: "token-u1"}).Error)
	require.NoError(t, s.db.Create(&UserProfile{
		UniqueID:  "u1",
		Name:      "철수",
		Cellphone: "010-1234-5678",
		Location:  "서울",
	}).Error)

	token, err := s.GetDeviceToken(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "token-u1", token)

	_, err = s.GetDeviceToken(ctx, "nobody")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	profile, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "철수", profile.Name)
	require.Equal(t, "서울", profile.Location)

	_, err = s.GetProfile(ctx, "nobody")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestInsertAlarm(t *testing.T) {
	s := newTestStore(t)

	alarm := &domain.Alarm{
		UniqueIDTo:   "u2",
		UniqueIDFrom: "u1",
		AlarmName:    "철수님이 대화를 요청했어요!",
		RoomID:       "R1",
		AlarmTime:    1700000000000,
	}
	require.NoError(t, s.InsertAlarm(context.Background(), alarm))

	var row AlarmRecord
	require.NoError(t, s.db.Where("unique_id_to = ?", "u2").First(&row).Error)
	require.Equal(t, "u1", row.UniqueIDFrom)
	require.Equal(t, alarm.AlarmName, row.AlarmName)
	require.Equal(t, int64(1700000000000), row.AlarmTime)
	require.False(t, row.IsRead)
}
