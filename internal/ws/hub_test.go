package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flipperzap/internal/logging"
)

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub(logging.NewLogger(logging.LevelError, logging.FormatText))
	server := httptest.NewServer(hub)
	t.Cleanup(server.Close)

	return hub, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWelcomeMessageOnConnect(t *testing.T) {
	_, server := newTestHub(t)
	conn := dial(t, server)

	msg := readMessage(t, conn)
	assert.Equal(t, "connection", msg.Type)

	payload, ok := msg.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "connected", payload["status"])
	assert.NotEmpty(t, payload["timestamp"])
}

func TestPingPong(t *testing.T) {
	_, server := newTestHub(t)
	conn := dial(t, server)
	readMessage(t, conn) // welcome

	for i := 0; i < 3; i++ {
		require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))
		msg := readMessage(t, conn)
		assert.Equal(t, "pong", msg.Type, "ping %d must yield exactly one pong", i)
	}
}

func TestRegisterAndScanUpdate(t *testing.T) {
	hub, server := newTestHub(t)
	conn := dial(t, server)
	readMessage(t, conn) // welcome

	require.NoError(t, conn.WriteJSON(Message{Type: "register", UserID: "user-1"}))

	// Ping round-trip guarantees the register was processed before we send
	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))
	readMessage(t, conn)

	hub.SendScanUpdate("user-1", "scan-1", "completed", map[string]string{"toyName": "Vintage Barbie Doll"})

	msg := readMessage(t, conn)
	assert.Equal(t, "scan_update", msg.Type)

	payload, ok := msg.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "scan-1", payload["scanId"])
	assert.Equal(t, "completed", payload["status"])
	assert.NotEmpty(t, payload["timestamp"])
}

func TestUpdatesOnlyReachRegisteredUser(t *testing.T) {
	hub, server := newTestHub(t)

	conn1 := dial(t, server)
	readMessage(t, conn1)
	require.NoError(t, conn1.WriteJSON(Message{Type: "register", UserID: "user-1"}))
	require.NoError(t, conn1.WriteJSON(Message{Type: "ping"}))
	readMessage(t, conn1)

	conn2 := dial(t, server)
	readMessage(t, conn2)
	require.NoError(t, conn2.WriteJSON(Message{Type: "register", UserID: "user-2"}))
	require.NoError(t, conn2.WriteJSON(Message{Type: "ping"}))
	readMessage(t, conn2)

	hub.SendListingUpdate("user-2", "listing-9", "listed", nil)

	msg := readMessage(t, conn2)
	assert.Equal(t, "listing_update", msg.Type)

	// user-1 must not receive anything
	conn1.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	var stray Message
	err := conn1.ReadJSON(&stray)
	assert.Error(t, err, "user-1 should not receive user-2 updates")
}

func TestDisconnectCleansUp(t *testing.T) {
	hub, server := newTestHub(t)

	conn := dial(t, server)
	readMessage(t, conn)
	require.NoError(t, conn.WriteJSON(Message{Type: "register", UserID: "user-1"}))
	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))
	readMessage(t, conn)

	require.Equal(t, 1, hub.ClientCount())
	conn.Close()

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, 2*time.Second, 20*time.Millisecond)
}
