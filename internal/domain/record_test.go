package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParticipantLog_UnreadCount(t *testing.T) {
	l := ParticipantLog{
		{MsgID: 1, Source: SourceOther, Msg: "a", IsRead: false},
		{MsgID: 2, Source: SourceMe, Msg: "b", IsRead: false},
		{MsgID: 3, Source: SourceOther, Msg: "c", IsRead: true},
		{MsgID: 4, Source: SourcePromise, Msg: "d", IsRead: false},
		{MsgID: 5, Source: SourceOther, Msg: "e", IsRead: false},
	}

	// Only unread records from the counterpart count; own and promise
	// records never do.
	require.Equal(t, 2, l.UnreadCount())
	require.True(t, l.HasUnread())
}

func TestParticipantLog_UnreadCount_Empty(t *testing.T) {
	var l ParticipantLog
	require.Equal(t, 0, l.UnreadCount())
	require.False(t, l.HasUnread())
}

func TestParticipantLog_MarkAllRead(t *testing.T) {
	l := ParticipantLog{
		{MsgID: 1, Source: SourceOther},
		{MsgID: 2, Source: SourceMe},
		{MsgID: 3, Source: SourcePromise},
	}

	l.MarkAllRead()

	for _, r := range l {
		require.True(t, r.IsRead)
	}
	require.Equal(t, 0, l.UnreadCount())

	// Idempotent.
	l.MarkAllRead()
	require.Equal(t, 0, l.UnreadCount())
}

func TestSession_TagOnce(t *testing.T) {
	s := NewSession()
	require.Empty(t, s.UUID())

	s.Tag("u1")
	require.Equal(t, "u1", s.UUID())

	// A connection is never re-tagged.
	s.Tag("u2")
	require.Equal(t, "u1", s.UUID())
}
