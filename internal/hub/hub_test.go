package hub

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/podwatch/internal/activity"
)

func dialTestHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h.ServeWS(8))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return h.ClientCount() == want
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHubPublishReachesSubscriber(t *testing.T) {
	h := New(nil)
	go h.Run()

	conn := dialTestHub(t, h)
	waitForClients(t, h, 1)

	h.Publish(activity.Event{
		Type:      activity.EventCreditsEarned,
		Pubkey:    "node-a",
		Timestamp: 1_700_000_000_000,
		Payload:   &activity.Payload{Earned: 2, Total: 10},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var got frame
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, eventName, got.Event)
	assert.Equal(t, activity.EventCreditsEarned, got.Data.Type)
	assert.Equal(t, "node-a", got.Data.Pubkey)
	require.NotNil(t, got.Data.Payload)
	assert.Equal(t, 2.0, got.Data.Payload.Earned)
}

func TestHubFanOut(t *testing.T) {
	h := New(nil)
	go h.Run()

	first := dialTestHub(t, h)
	second := dialTestHub(t, h)
	waitForClients(t, h, 2)

	h.Publish(activity.Event{Type: activity.EventNodeOnline, Pubkey: "node-a"})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(payload), "node-a")
	}
}

func TestHubClientDisconnect(t *testing.T) {
	h := New(nil)
	go h.Run()

	conn := dialTestHub(t, h)
	waitForClients(t, h, 1)

	conn.Close()
	waitForClients(t, h, 0)
}

func TestHubClientCountIdle(t *testing.T) {
	h := New(nil)
	go h.Run()
	assert.Equal(t, 0, h.ClientCount())
}
