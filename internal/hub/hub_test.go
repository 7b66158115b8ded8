package hub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/osjaeyoung/bbanggri-server/internal/config"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	go h.Run()
	return h
}

func newTestClient(h *Hub, id string) *Client {
	return NewClient(id, h, nil, config.WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 4096,
	})
}

func recvFrame(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data := <-c.Send:
		return data
	case <-time.After(time.Second):
		t.Fatal("expected a frame, got none")
		return nil
	}
}

func requireNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("expected no frame, got %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestJoinRoom_CreatesRegistryEntry(t *testing.T) {
	h := newTestHub(t)
	a := newTestClient(h, "a")

	require.False(t, h.HasRoom("r1"))
	h.JoinRoom(a, "r1")
	require.True(t, h.HasRoom("r1"))
	require.Equal(t, 1, h.MembersCount("r1"))
}

func TestLeaveRoom_RemovesEmptyRoom(t *testing.T) {
	h := newTestHub(t)
	a := newTestClient(h, "a")
	b := newTestClient(h, "b")

	h.JoinRoom(a, "r1")
	h.JoinRoom(b, "r1")
	require.Equal(t, 2, h.MembersCount("r1"))

	h.LeaveRoom(a, "r1")
	require.True(t, h.HasRoom("r1"))

	h.LeaveRoom(b, "r1")
	require.False(t, h.HasRoom("r1"))
	require.Equal(t, 0, h.MembersCount("r1"))
}

func TestBroadcast_ExcludesSender(t *testing.T) {
	h := newTestHub(t)
	a := newTestClient(h, "a")
	b := newTestClient(h, "b")

	h.JoinRoom(a, "r1")
	h.JoinRoom(b, "r1")

	require.NoError(t, h.Broadcast("r1", a.ID, map[string]string{"hello": "world"}))

	var got map[string]string
	require.NoError(t, json.Unmarshal(recvFrame(t, b), &got))
	require.Equal(t, "world", got["hello"])

	requireNoFrame(t, a)
}

func TestBroadcast_AbsentRoomIsNoop(t *testing.T) {
	h := newTestHub(t)
	require.NoError(t, h.Broadcast("missing", "", map[string]string{"x": "y"}))
}

func TestRemoveParticipant_ByUUID(t *testing.T) {
	h := newTestHub(t)
	a := newTestClient(h, "a")
	b := newTestClient(h, "b")
	a.Session.Tag("u1")
	b.Session.Tag("u2")

	h.JoinRoom(a, "r1")
	h.JoinRoom(b, "r1")

	require.True(t, h.RemoveParticipant("r1", "u1"))
	require.Equal(t, 1, h.MembersCount("r1"))

	// Unknown uuid and unknown room are no-ops.
	require.False(t, h.RemoveParticipant("r1", "nobody"))
	require.False(t, h.RemoveParticipant("missing", "u2"))

	require.True(t, h.RemoveParticipant("r1", "u2"))
	require.False(t, h.HasRoom("r1"))
}

func TestUnregister_SweepsRoomMembership(t *testing.T) {
	h := newTestHub(t)
	a := newTestClient(h, "a")
	b := newTestClient(h, "b")

	h.Register(a)
	h.Register(b)
	h.JoinRoom(a, "r1")
	h.JoinRoom(b, "r1")

	// A transport drop without a disconnect frame must still leave the room.
	h.Unregister(a)
	require.Eventually(t, func() bool {
		return h.MembersCount("r1") == 1
	}, time.Second, 10*time.Millisecond)

	h.Unregister(b)
	require.Eventually(t, func() bool {
		return !h.HasRoom("r1")
	}, time.Second, 10*time.Millisecond)
}
